package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/tool/arithmetic"
)

func newTestAgent(t *testing.T, provider ai.Provider, opts ...Option) *Agent {
	t.Helper()
	a, err := New(provider, arithmetic.Registry(), opts...)
	require.NoError(t, err)
	return a
}

// toolResult decodes the error payload of a tool message.
func toolResult(t *testing.T, msg ai.Message) ai.ToolResult {
	t.Helper()
	var result ai.ToolResult
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &result), msg.Content)
	return result
}

func call(id, name string, a, b float64) ai.ToolCall {
	return ai.ToolCall{ID: id, Name: name, Arguments: map[string]any{"a": a, "b": b}}
}
