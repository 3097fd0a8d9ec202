// Package ai defines the provider-agnostic message model shared by the agent
// loop and every backend implementation: [Message], [ToolCall], [ChatRequest]
// and [ChatResponse].
//
// Backends implement [Provider]. Each backend's conversion layer maps these
// types to its own wire format, keeping the loop decoupled from
// provider-specific details. Tool failures travel back to the model as
// [ToolResult] payloads in the content of tool messages.
package ai
