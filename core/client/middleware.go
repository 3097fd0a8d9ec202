package client

import (
	"context"

	"github.com/leofalp/toolloop/providers/ai"
)

// SendFunc sends a chat request to the backend and returns the completed
// response. It is the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware intercepts and optionally transforms backend requests and
// responses. Each Middleware receives the next SendFunc in the chain and
// returns a new SendFunc that wraps it.
type Middleware func(next SendFunc) SendFunc

// Wrap returns a provider that runs every request through middlewares before
// calling provider. The first middleware is the outermost wrapper: it runs
// first on the way in and last on the way out. Nil middlewares are skipped.
func Wrap(provider ai.Provider, middlewares ...Middleware) ai.Provider {
	if len(middlewares) == 0 {
		return provider
	}
	return ai.ProviderFunc(buildSendChain(provider, middlewares))
}

// buildSendChain applies middlewares in reverse so that middlewares[0] is
// outermost.
func buildSendChain(provider ai.Provider, middlewares []Middleware) SendFunc {
	var chain SendFunc = provider.SendMessage

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		chain = middlewares[i](chain)
	}

	return chain
}
