package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/toolloop/providers/observability"
)

// testSpan records event names and attributes for assertions.
type testSpan struct {
	events     []string
	attributes []observability.Attribute
}

func (s *testSpan) End() {}
func (s *testSpan) SetAttributes(attrs ...observability.Attribute) {
	s.attributes = append(s.attributes, attrs...)
}
func (s *testSpan) SetStatus(observability.StatusCode, string) {}
func (s *testSpan) RecordError(error)                          {}
func (s *testSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.events = append(s.events, name)
	s.attributes = append(s.attributes, attrs...)
}

type pairInput struct {
	X float64 `json:"x" jsonschema:"description=Left operand,minimum=1,required"`
	Y float64 `json:"y" jsonschema:"description=Right operand,required"`
}

func sum(_ context.Context, in pairInput) (float64, error) {
	return in.X + in.Y, nil
}

func TestNewTool_DerivesSchema(t *testing.T) {
	sumTool := NewTool("sum", sum, WithDescription("Adds x and y."))

	info := sumTool.ToolInfo()
	assert.Equal(t, "sum", info.Name)
	assert.Equal(t, "Adds x and y.", info.Description)
	require.NotNil(t, info.Parameters)
	assert.Equal(t, "object", info.Parameters.Type)
	assert.ElementsMatch(t, []string{"x", "y"}, info.Parameters.Required)
	require.NotNil(t, info.Parameters.Properties["x"].Minimum)
	assert.Equal(t, 1.0, *info.Parameters.Properties["x"].Minimum)
	assert.Nil(t, info.Parameters.Properties["y"].Minimum)
}

func TestNewTool_DefaultNoDescription(t *testing.T) {
	assert.Empty(t, NewTool("sum", sum).ToolInfo().Description)
}

func TestTool_Call(t *testing.T) {
	sumTool := NewTool("sum", sum)

	out, err := sumTool.Call(context.Background(), map[string]any{"x": 21.0, "y": 43.0})
	require.NoError(t, err)
	assert.Equal(t, "64", out)

	out, err = sumTool.Call(context.Background(), map[string]any{"x": 0.5, "y": 2.7})
	require.NoError(t, err)
	assert.Equal(t, "3.2", out)
}

func TestTool_Call_UndecodableArguments(t *testing.T) {
	sumTool := NewTool("sum", sum)

	_, err := sumTool.Call(context.Background(), map[string]any{"x": "twenty", "y": 1.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestTool_Call_FunctionErrorIsReturnedUnchanged(t *testing.T) {
	boom := errors.New("boom")
	failing := NewTool("fail", func(context.Context, pairInput) (float64, error) {
		return 0, boom
	})

	_, err := failing.Call(context.Background(), map[string]any{"x": 1.0, "y": 1.0})
	assert.Same(t, boom, err)
}

func TestTool_Call_RecordsSpanEvents(t *testing.T) {
	span := &testSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)

	_, err := NewTool("sum", sum).Call(ctx, map[string]any{"x": 2.0, "y": 3.0})
	require.NoError(t, err)

	assert.Equal(t, []string{observability.EventToolExecutionStart, observability.EventToolExecutionEnd}, span.events)
	assert.Contains(t, span.attributes, observability.String(observability.AttrToolOutput, "5"))
}

func TestRegistry_Lookup(t *testing.T) {
	registry, err := NewRegistry(NewTool("sum", sum), NewTool("other", sum))
	require.NoError(t, err)

	found, err := registry.Lookup("sum")
	require.NoError(t, err)
	assert.Equal(t, "sum", found.ToolInfo().Name)

	_, err = registry.Lookup("power")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Equal(t, "unknown tool: power", err.Error())

	_, err = registry.Lookup("SUM")
	assert.ErrorIs(t, err, ErrToolNotFound, "names are matched exactly")
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(NewTool("sum", sum), NewTool("sum", sum))
	assert.ErrorIs(t, err, ErrDuplicateTool)

	_, err = NewRegistry(NewTool("", sum))
	assert.Error(t, err)

	assert.Panics(t, func() { MustNewRegistry(NewTool("sum", sum), NewTool("sum", sum)) })
}

func TestRegistry_DescriptionsSorted(t *testing.T) {
	registry := MustNewRegistry(NewTool("zeta", sum), NewTool("alpha", sum), NewTool("mid", sum))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.Names())
	assert.Equal(t, 3, registry.Len())

	descriptions := registry.Descriptions()
	require.Len(t, descriptions, 3)
	assert.Equal(t, "alpha", descriptions[0].Name)
	assert.Equal(t, "zeta", descriptions[2].Name)
}

func TestRegistry_Nil(t *testing.T) {
	var registry *Registry
	_, err := registry.Lookup("add")
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Zero(t, registry.Len())
	assert.Nil(t, registry.Descriptions())
}
