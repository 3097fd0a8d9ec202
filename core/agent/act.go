package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/iter"

	"github.com/leofalp/toolloop/internal/jsonschema"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// Act executes calls and returns one tool message per call, in the same
// order, each answering the call with the matching ID. Failures are encoded
// as ai.ToolResult payloads in the message content and never affect sibling
// calls.
func (a *Agent) Act(ctx context.Context, calls []ai.ToolCall) []ai.Message {
	ctx, span := a.cfg.observer.StartSpan(ctx, observability.SpanAgentAct,
		observability.Int(observability.AttrAgentToolCalls, len(calls)),
	)
	defer span.End()

	if len(calls) == 0 {
		return []ai.Message{}
	}

	batch := make([]ai.ToolCall, len(calls))
	for i, call := range calls {
		batch[i] = call.Clone()
	}

	var out []ai.Message
	if a.cfg.toolConcurrency > 1 && len(batch) > 1 {
		mapper := iter.Mapper[ai.ToolCall, ai.Message]{MaxGoroutines: a.cfg.toolConcurrency}
		out = mapper.Map(batch, func(call *ai.ToolCall) ai.Message {
			return a.actOne(ctx, *call)
		})
	} else {
		out = make([]ai.Message, len(batch))
		for i, call := range batch {
			out[i] = a.actOne(ctx, call)
		}
	}

	a.cfg.observer.Counter(observability.MetricAgentToolCalls).Add(ctx, int64(len(out)))
	span.SetStatus(observability.StatusOK, "")
	return out
}

func (a *Agent) actOne(ctx context.Context, call ai.ToolCall) ai.Message {
	t, err := a.registry.Lookup(call.Name)
	if err != nil {
		return a.toolError(ctx, call, ai.ToolErrorNotFound, err.Error())
	}

	if err := jsonschema.Validate(t.ToolInfo().Parameters, call.Arguments); err != nil {
		return a.toolError(ctx, call, ai.ToolErrorInvalidArguments,
			fmt.Sprintf("invalid arguments for %s: %v", call.Name, err))
	}

	output, err := t.Call(ctx, call.Arguments)
	if err != nil {
		return a.toolError(ctx, call, classify(err), err.Error())
	}
	return ai.NewToolMessage(call, output)
}

// classify maps a tool error to the ai.ToolResult error kind.
func classify(err error) string {
	switch {
	case errors.Is(err, tool.ErrToolNotFound):
		return ai.ToolErrorNotFound
	case errors.Is(err, tool.ErrInvalidArguments):
		return ai.ToolErrorInvalidArguments
	case errors.Is(err, tool.ErrArithmetic):
		return ai.ToolErrorArithmetic
	default:
		return ai.ToolErrorExecution
	}
}

func (a *Agent) toolError(ctx context.Context, call ai.ToolCall, kind, message string) ai.Message {
	a.cfg.observer.Counter(observability.MetricAgentToolErrors).Add(ctx, 1,
		observability.String(observability.AttrToolName, call.Name),
		observability.String(observability.AttrToolError, kind),
	)
	a.cfg.observer.Debug(ctx, "tool call failed",
		observability.String(observability.AttrToolName, call.Name),
		observability.String(observability.AttrToolCallID, call.ID),
		observability.String(observability.AttrToolError, kind),
	)

	content, err := ai.NewToolResultError(kind, message).ToJSON()
	if err != nil {
		content = kind + ": " + message
	}
	return ai.NewToolMessage(call, content)
}
