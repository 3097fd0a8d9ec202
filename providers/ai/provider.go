package ai

import (
	"context"
)

// Provider is the model backend consumed by the agent loop: the full history
// goes in, exactly one assistant turn comes out. Implementations own the wire
// format and are responsible for decoding tool-call arguments; a structurally
// invalid response must be reported as an error.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// Returns an error if the call fails, the context is cancelled, or the
	// response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, request ChatRequest) (*ChatResponse, error)

// SendMessage calls f.
func (f ProviderFunc) SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	return f(ctx, request)
}
