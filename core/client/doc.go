// Package client composes an [ai.Provider] with send middleware.
//
// [Wrap] returns a provider whose SendMessage runs the request through every
// middleware before reaching the backend. The agent loop only sees the
// resulting ai.Provider, so timeouts and request logging stay out of the
// decision step.
//
//	provider := client.Wrap(openai.New(),
//	    middleware.NewTimeoutMiddleware(30*time.Second),
//	    middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
//	)
package client
