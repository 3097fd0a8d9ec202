package ai

import (
	"encoding/json"

	"github.com/leofalp/toolloop/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents one round trip to the model backend.
type ChatRequest struct {
	Model        string            `json:"model,omitempty"`         // Model name or identifier
	Messages     []Message         `json:"messages"`                // Conversation history, system prompt excluded
	SystemPrompt string            `json:"system_prompt,omitempty"` // Optional system prompt
	Tools        []ToolDescription `json:"tools,omitempty"`         // Tool definitions advertised to the model
}

// ToolDescription is the advisory view of a registered tool that is sent to the
// model: its name, a free-text description and the JSON schema of its arguments.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role" yaml:"role"`
	Content string      `json:"content,omitempty" yaml:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`     // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty" yaml:"tool_call_id,omitempty"` // For role=tool, links to the tool call being responded to
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`                 // For role=tool, name of the tool that generated this response
}

// HasToolCalls reports whether m is an assistant message requesting at least one tool.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

// Clone returns a deep copy of m, so that the copy can be handed to another
// step without aliasing the tool call slice or argument maps.
func (m Message) Clone() Message {
	out := m
	if m.ToolCalls != nil {
		out.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			out.ToolCalls[i] = tc.Clone()
		}
	}
	return out
}

// NewSystemMessage builds a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewToolMessage builds the tool message answering call.
func NewToolMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: call.ID,
		Name:       call.Name,
	}
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty" yaml:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty" yaml:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`
}

// Add accumulates other into u. A nil other is ignored.
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResponse represents the assistant turn returned by a backend.
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`
}

// Message converts the response into the assistant message that is appended
// to the history. Content and tool calls are carried over verbatim.
func (r *ChatResponse) Message() Message {
	msg := Message{
		Role:    RoleAssistant,
		Content: r.Content,
	}
	if len(r.ToolCalls) > 0 {
		msg.ToolCalls = make([]ToolCall, len(r.ToolCalls))
		for i, tc := range r.ToolCalls {
			msg.ToolCalls[i] = tc.Clone()
		}
	}
	return msg
}

// ToolCall represents a function/tool call request from the LLM.
type ToolCall struct {
	ID        string         `json:"id" yaml:"id"`                                   // Unique identifier within the containing message
	Name      string         `json:"name" yaml:"name"`                               // Registry key of the requested tool
	Arguments map[string]any `json:"arguments,omitempty" yaml:"arguments,omitempty"` // Decoded argument object, validated by the action step
}

// Clone returns a copy of the tool call with its own argument map.
func (tc ToolCall) Clone() ToolCall {
	out := tc
	if tc.Arguments != nil {
		out.Arguments = make(map[string]any, len(tc.Arguments))
		for k, v := range tc.Arguments {
			out.Arguments[k] = v
		}
	}
	return out
}

// ToolResult represents a standardized tool execution failure or success payload.
// Failures are encoded into the content of the tool message so that the model
// can react to them on the next decision.
type ToolResult struct {
	Success bool        `json:"success"`           // Whether the tool executed successfully
	Error   string      `json:"error,omitempty"`   // Error kind if success=false (e.g. "tool_not_found")
	Message string      `json:"message,omitempty"` // Human-readable message or error description
	Data    interface{} `json:"data,omitempty"`    // Actual result data if success=true
}

// Error kinds carried in ToolResult.Error.
const (
	ToolErrorNotFound         = "tool_not_found"
	ToolErrorInvalidArguments = "invalid_arguments"
	ToolErrorArithmetic       = "arithmetic_error"
	ToolErrorExecution        = "tool_execution_failed"
)

// NewToolResultSuccess creates a successful tool result.
func NewToolResultSuccess(data interface{}) ToolResult {
	return ToolResult{
		Success: true,
		Data:    data,
	}
}

// NewToolResultError creates a failed tool result with error details.
// errorType should be one of the ToolError* kinds; message is shown to the model.
func NewToolResultError(errorType, message string) ToolResult {
	return ToolResult{
		Success: false,
		Error:   errorType,
		Message: message,
	}
}

// ToJSON converts the ToolResult to a JSON string.
func (tr ToolResult) ToJSON() (string, error) {
	bytes, err := json.Marshal(tr)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model turn, possibly carrying tool calls
	RoleTool      MessageRole = "tool"      // Tool/function output
)
