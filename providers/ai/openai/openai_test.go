package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/toolloop/internal/jsonschema"
	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/ai"
)

type operands struct {
	A float64 `json:"a" jsonschema:"description=First Number,minimum=1,required"`
	B float64 `json:"b" jsonschema:"description=Second Number,minimum=1,required"`
}

// newTestServer starts a server that records the decoded request body and
// answers with reply.
func newTestServer(t *testing.T, status int, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestProvider(server *httptest.Server) *Provider {
	return New().WithAPIKey("test-key").WithBaseURL(server.URL + "/")
}

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_API_BASE_URL", "http://localhost:8080/v1/")

	p := New()
	assert.Equal(t, "env-key", p.apiKey)
	assert.Equal(t, "http://localhost:8080/v1", p.baseURL)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_BASE_URL", "")

	p := New().WithBaseURL("")
	assert.Equal(t, defaultBaseURL, p.baseURL)
}

func TestSendMessage_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New().SendMessage(context.Background(), ai.ChatRequest{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSendMessage_ToolCalls(t *testing.T) {
	var captured map[string]any
	server := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_add",
					"type": "function",
					"function": {"name": "add", "arguments": "{\"a\": 21, \"b\": 43}"}
				}]
			}
		}],
		"usage": {"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120}
	}`, &captured)

	request := ai.ChatRequest{
		SystemPrompt: "You are a calculator.",
		Messages:     []ai.Message{ai.NewUserMessage("Add 21 and 43")},
		Tools: []ai.ToolDescription{{
			Name:        "add",
			Description: "Adds two numbers",
			Parameters:  jsonschema.MustGenerateJSONSchema[operands](),
		}},
	}

	resp, err := newTestProvider(server).SendMessage(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-1", resp.Id)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, ai.ToolCall{ID: "call_add", Name: "add", Arguments: map[string]any{"a": 21.0, "b": 43.0}}, resp.ToolCalls[0])
	assert.Equal(t, &ai.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120}, resp.Usage)

	assert.Equal(t, DefaultModel, captured["model"])
	assert.Equal(t, "auto", captured["tool_choice"])

	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "You are a calculator."}, messages[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "Add 21 and 43"}, messages[1])

	tools := captured["tools"].([]any)
	require.Len(t, tools, 1)
	function := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "add", function["name"])
	params := function["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.ElementsMatch(t, []any{"a", "b"}, params["required"])
}

func TestSendMessage_FinalAnswer(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-2",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "The result is 3.2"}}]
	}`, nil)

	resp, err := newTestProvider(server).SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.NewUserMessage("hi")},
	})
	require.NoError(t, err)

	assert.Equal(t, "The result is 3.2", resp.Content)
	assert.Empty(t, resp.ToolCalls)
	assert.Nil(t, resp.Usage)
}

func TestSendMessage_HTTPError(t *testing.T) {
	server := newTestServer(t, http.StatusUnauthorized, `{"error": {"message": "bad key"}}`, nil)

	_, err := newTestProvider(server).SendMessage(context.Background(), ai.ChatRequest{})
	require.Error(t, err)

	var httpErr *utils.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
}

func TestSendMessage_NoChoices(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"id": "x", "choices": []}`, nil)

	_, err := newTestProvider(server).SendMessage(context.Background(), ai.ChatRequest{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRequestToChatCompletion_History(t *testing.T) {
	request := ai.ChatRequest{
		Model: "gpt-4o",
		Messages: []ai.Message{
			ai.NewUserMessage("Add 21 and 43"),
			{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{
				{ID: "call_1", Name: "add", Arguments: map[string]any{"a": 21.0, "b": 43.0}},
				{ID: "call_2", Name: "noop"},
			}},
			ai.NewToolMessage(ai.ToolCall{ID: "call_1", Name: "add"}, "64"),
		},
	}

	req, err := requestToChatCompletion(request)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", req.Model)
	assert.Empty(t, req.Tools)
	assert.Empty(t, req.ToolChoice)
	require.Len(t, req.Messages, 3, "no system message without a system prompt")

	assistant := req.Messages[1]
	require.Len(t, assistant.ToolCalls, 2)
	assert.Equal(t, "function", assistant.ToolCalls[0].Type)
	assert.JSONEq(t, `{"a":21,"b":43}`, assistant.ToolCalls[0].Function.Arguments)
	assert.Equal(t, "{}", assistant.ToolCalls[1].Function.Arguments)

	tool := req.Messages[2]
	assert.Equal(t, "tool", tool.Role)
	assert.Equal(t, "call_1", tool.ToolCallID)
	assert.Equal(t, "64", tool.Content)
}

func TestChatCompletionToGeneric(t *testing.T) {
	toolCall := func(id, name, args string) chatToolCall {
		tc := chatToolCall{ID: id, Type: "function"}
		tc.Function.Name = name
		tc.Function.Arguments = args
		return tc
	}
	response := func(calls ...chatToolCall) chatCompletionResponse {
		return chatCompletionResponse{Choices: []chatChoice{{
			FinishReason: "tool_calls",
			Message:      chatResponseMessage{Role: "assistant", ToolCalls: calls},
		}}}
	}

	t.Run("repairs sloppy arguments", func(t *testing.T) {
		resp, err := chatCompletionToGeneric(response(toolCall("call_1", "add", `{a: 21, b: 43,}`)))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 21.0, "b": 43.0}, resp.ToolCalls[0].Arguments)
	})

	t.Run("empty arguments decode to an empty object", func(t *testing.T) {
		resp, err := chatCompletionToGeneric(response(toolCall("call_1", "add", "")))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, resp.ToolCalls[0].Arguments)
	})

	t.Run("synthesizes missing ids", func(t *testing.T) {
		resp, err := chatCompletionToGeneric(response(toolCall("", "add", `{}`), toolCall("", "add", `{}`)))
		require.NoError(t, err)
		require.Len(t, resp.ToolCalls, 2)
		assert.True(t, strings.HasPrefix(resp.ToolCalls[0].ID, "call_"))
		assert.NotEqual(t, resp.ToolCalls[0].ID, resp.ToolCalls[1].ID)
	})

	t.Run("non-object arguments are malformed", func(t *testing.T) {
		_, err := chatCompletionToGeneric(response(toolCall("call_1", "add", `[1, 2]`)))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("missing name is malformed", func(t *testing.T) {
		_, err := chatCompletionToGeneric(response(toolCall("call_1", "", `{}`)))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("refusal becomes content", func(t *testing.T) {
		resp, err := chatCompletionToGeneric(chatCompletionResponse{Choices: []chatChoice{{
			FinishReason: "stop",
			Message:      chatResponseMessage{Role: "assistant", Refusal: "I can't help with that."},
		}}})
		require.NoError(t, err)
		assert.Equal(t, "I can't help with that.", resp.Content)
	})
}

func TestChatCompletionToGeneric_ToolCallsInContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"tagged", `<TOOLCALL>[{"name": "add", "arguments": {"a": 21, "b": 43}}]</TOOLCALL>`, []string{"add"}},
		{"bare array", `[{"name": "add", "arguments": {"a": 1, "b": 2}}, {"name": "divide", "arguments": "{\"a\": 64, \"b\": 20}"}]`, []string{"add", "divide"}},
		{"plain text", "The answer is 64.", nil},
		{"array without names", `[1, 2, 3]`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := chatCompletionToGeneric(chatCompletionResponse{Choices: []chatChoice{{
				FinishReason: "stop",
				Message:      chatResponseMessage{Role: "assistant", Content: tc.content},
			}}})
			require.NoError(t, err)

			var names []string
			for _, call := range resp.ToolCalls {
				names = append(names, call.Name)
				assert.NotEmpty(t, call.ID)
			}
			assert.Equal(t, tc.want, names)
			if tc.want != nil {
				assert.Empty(t, resp.Content)
				assert.Equal(t, "tool_calls", resp.FinishReason)
			} else {
				assert.Equal(t, tc.content, resp.Content)
			}
		})
	}
}
