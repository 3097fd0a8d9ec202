package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name  string
		attr  Attribute
		key   string
		value interface{}
	}{
		{"string", String("tool.name", "add"), "tool.name", "add"},
		{"int", Int("agent.round", 3), "agent.round", 3},
		{"int64", Int64("tokens", 9223372036854775807), "tokens", int64(9223372036854775807)},
		{"float64", Float64("result", 3.2), "result", 3.2},
		{"bool", Bool("parallel", true), "parallel", true},
		{"duration", Duration("tool.duration", time.Second), "tool.duration", time.Second},
		{"error", Error(errors.New("boom")), AttrError, "boom"},
		{"nil error", Error(nil), AttrError, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.key, tc.attr.Key)
			assert.Equal(t, tc.value, tc.attr.Value)
		})
	}
}

func TestStatusCodeString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unset", StatusUnset.String())
}

// TestNoop verifies that the no-op provider is safe to use everywhere an
// observer is expected.
func TestNoop(t *testing.T) {
	ctx := context.Background()
	observer := Noop()

	spanCtx, span := observer.StartSpan(ctx, SpanAgentRun, String(AttrAgentRunID, "run-1"))
	assert.Equal(t, ctx, spanCtx)

	span.AddEvent(EventStateTransition)
	span.SetAttributes(Int(AttrAgentRound, 1))
	span.SetStatus(StatusOK, "")
	span.RecordError(errors.New("ignored"))
	span.End()

	observer.Counter(MetricAgentRounds).Add(ctx, 1)
	observer.Histogram(MetricAgentRunDuration).Record(ctx, 1.5)
	observer.Trace(ctx, "trace")
	observer.Debug(ctx, "debug")
	observer.Info(ctx, "info")
	observer.Warn(ctx, "warn")
	observer.Error(ctx, "error")
}
