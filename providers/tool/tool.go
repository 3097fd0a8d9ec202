package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/toolloop/core/parse"
	"github.com/leofalp/toolloop/internal/jsonschema"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
)

// Tool binds a name and description to a typed Go function. The parameter
// schema is derived from I by reflection, so constraints declared with the
// jsonschema struct tag are both advertised to the model and enforced by
// the action step.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
}

// GenericTool is the type-erased view of a Tool stored in a Registry.
type GenericTool interface {
	// ToolInfo returns the name, description and parameter schema advertised
	// to the model.
	ToolInfo() ai.ToolDescription

	// Call decodes arguments into the tool's input type, runs it and returns
	// the JSON encoding of its output.
	Call(ctx context.Context, arguments map[string]any) (string, error)
}

type funcToolOptions struct {
	Description string
}

// WithDescription sets the advisory description shown to the model.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// NewTool constructs a Tool, deriving its parameter schema from I.
// It panics if I cannot be described by a schema, which only happens for
// recursive types and is a programming error.
//
//	add := tool.NewTool("add", Add, tool.WithDescription("Add two numbers."))
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  jsonschema.MustGenerateJSONSchema[I](),
		Function:    function,
	}
}

func (t *Tool[I, O]) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Call runs the tool. Decoding failures wrap ErrInvalidArguments; errors
// from the function are returned unchanged so that callers can classify them.
// When ctx carries a span, execution start and end are recorded as events.
func (t *Tool[I, O]) Call(ctx context.Context, arguments map[string]any) (string, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
		)
	}

	start := time.Now()
	output, err := t.call(ctx, arguments)

	if span != nil {
		attrs := []observability.Attribute{
			observability.String(observability.AttrToolName, t.Name),
			observability.Duration(observability.AttrToolDuration, time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, observability.String(observability.AttrToolError, err.Error()))
		} else {
			attrs = append(attrs, observability.String(observability.AttrToolOutput, output))
		}
		span.AddEvent(observability.EventToolExecutionEnd, attrs...)
	}
	return output, err
}

func (t *Tool[I, O]) call(ctx context.Context, arguments map[string]any) (string, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	raw, err := json.Marshal(arguments)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	input, err := parse.ParseStringAs[I](string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	output, err := t.Function(ctx, input)
	if err != nil {
		return "", err
	}

	outputBytes, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("encode %s output: %w", t.Name, err)
	}
	return string(outputBytes), nil
}
