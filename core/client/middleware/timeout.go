package middleware

import (
	"context"
	"time"

	"github.com/leofalp/toolloop/core/client"
	"github.com/leofalp/toolloop/providers/ai"
)

// NewTimeoutMiddleware returns a middleware that bounds each backend call by
// timeout. A non-positive timeout disables the deadline. If the caller's
// context already has a shorter deadline, that deadline wins.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
