package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leofalp/toolloop/providers/ai"
)

func TestRoute(t *testing.T) {
	calls := []ai.ToolCall{{ID: "c1", Name: "add"}}

	tests := []struct {
		name string
		msg  ai.Message
		want RouteDecision
	}{
		{"assistant with tool calls", ai.Message{Role: ai.RoleAssistant, ToolCalls: calls}, Continue},
		{"assistant with text and tool calls", ai.Message{Role: ai.RoleAssistant, Content: "let me add", ToolCalls: calls}, Continue},
		{"assistant with text only", ai.Message{Role: ai.RoleAssistant, Content: "3.2"}, End},
		{"assistant empty", ai.Message{Role: ai.RoleAssistant}, End},
		{"assistant with empty call list", ai.Message{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{}}, End},
		{"tool message", ai.Message{Role: ai.RoleTool, ToolCallID: "c1", Content: "64"}, End},
		{"user message", ai.NewUserMessage("hi"), End},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Route(tc.msg))
		})
	}
}

func TestRouteDecisionString(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "end", End.String())
}
