package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leofalp/toolloop/core/parse"
	"github.com/leofalp/toolloop/internal/jsonschema"
	"github.com/leofalp/toolloop/providers/ai"
)

/*
	CHAT COMPLETIONS API - INPUT
*/

type chatCompletionRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"` // "auto" whenever tools are sent
}

type chatMessage struct {
	Role       string         `json:"role"` // system, user, assistant, tool
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"` // For role=tool
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`   // For role=assistant
}

type chatTool struct {
	Type     string       `json:"type"` // "function"
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "function"
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"` // JSON-encoded object
	} `json:"function"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"` // "chat.completion"
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "tool_calls", "content_filter"
}

type chatResponseMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content,omitempty"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
	Refusal   string         `json:"refusal,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	CONVERSION FUNCTIONS
*/

// requestToChatCompletion converts ai.ChatRequest to chat completions format.
func requestToChatCompletion(request ai.ChatRequest) (chatCompletionRequest, error) {
	req := chatCompletionRequest{
		Model:    request.Model,
		Messages: make([]chatMessage, 0, len(request.Messages)+1),
	}

	if request.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}

	for _, msg := range request.Messages {
		chatMsg := chatMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			args := tc.Arguments
			if args == nil {
				args = map[string]any{}
			}
			encoded, err := json.Marshal(args)
			if err != nil {
				return chatCompletionRequest{}, fmt.Errorf("encode arguments of tool call %s: %w", tc.ID, err)
			}

			toolCall := chatToolCall{ID: tc.ID, Type: "function"}
			toolCall.Function.Name = tc.Name
			toolCall.Function.Arguments = string(encoded)
			chatMsg.ToolCalls = append(chatMsg.ToolCalls, toolCall)
		}
		req.Messages = append(req.Messages, chatMsg)
	}

	for _, tl := range request.Tools {
		req.Tools = append(req.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tl.Name,
				Description: tl.Description,
				Parameters:  tl.Parameters,
			},
		})
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = "auto"
	}

	return req, nil
}

// chatCompletionToGeneric converts a chat completion response to
// ai.ChatResponse, decoding every tool-call argument payload.
func chatCompletionToGeneric(resp chatCompletionResponse) (*ai.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	choice := resp.Choices[0]

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" && choice.Message.Refusal != "" {
		content = choice.Message.Refusal
	}

	chatResp := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: choice.FinishReason,
	}

	for _, tc := range choice.Message.ToolCalls {
		if tc.Function.Name == "" {
			return nil, fmt.Errorf("%w: tool call %q has no name", ErrMalformedResponse, tc.ID)
		}
		args, err := parse.ParseArguments(tc.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%w: arguments of tool call %q: %v", ErrMalformedResponse, tc.Function.Name, err)
		}
		id := tc.ID
		if id == "" {
			id = newCallID()
		}
		chatResp.ToolCalls = append(chatResp.ToolCalls, ai.ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	// Some OpenAI-compatible servers put tool calls in the content instead.
	if len(chatResp.ToolCalls) == 0 && content != "" {
		if parsed := parseToolCallsFromContent(content); len(parsed) > 0 {
			chatResp.ToolCalls = parsed
			chatResp.Content = ""
			if chatResp.FinishReason == "stop" {
				chatResp.FinishReason = "tool_calls"
			}
		}
	}

	if resp.Usage != nil {
		chatResp.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return chatResp, nil
}

func newCallID() string {
	return "call_" + uuid.NewString()
}

// parseToolCallsFromContent recognizes tool calls written as
// <TOOLCALL>[{"name": ..., "arguments": {...}}]</TOOLCALL>, or as a bare JSON
// array of such objects. Anything else yields nil.
func parseToolCallsFromContent(content string) []ai.ToolCall {
	payload := strings.TrimSpace(content)
	if start := strings.Index(payload, "<TOOLCALL>"); start != -1 {
		end := strings.Index(payload, "</TOOLCALL>")
		if end <= start {
			return nil
		}
		payload = strings.TrimSpace(payload[start+len("<TOOLCALL>") : end])
	}
	if !strings.HasPrefix(payload, "[") {
		return nil
	}

	type contentToolCall struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	calls, err := parse.ParseStringAs[[]contentToolCall](payload)
	if err != nil {
		return nil
	}

	var toolCalls []ai.ToolCall
	for _, call := range calls {
		if call.Name == "" {
			return nil
		}
		raw := string(call.Arguments)
		// Arguments may themselves be a JSON-encoded string.
		var quoted string
		if json.Unmarshal(call.Arguments, &quoted) == nil {
			raw = quoted
		}
		args, err := parse.ParseArguments(raw)
		if err != nil {
			return nil
		}
		toolCalls = append(toolCalls, ai.ToolCall{
			ID:        newCallID(),
			Name:      call.Name,
			Arguments: args,
		})
	}
	return toolCalls
}
