// Package middleware provides built-in [client.Middleware] implementations.
//
//   - [NewTimeoutMiddleware]: adds a per-request deadline via
//     context.WithTimeout so a stalled backend call cannot hold a round forever.
//
//   - [NewLoggingMiddleware]: emits structured slog entries before and after
//     every backend call, with three verbosity levels (Minimal, Standard,
//     Verbose).
//
// Middlewares execute outermost-first. With
//
//	client.Wrap(provider,
//	    middleware.NewTimeoutMiddleware(30*time.Second),
//	    middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
//	)
//
// a request travels Timeout → Logging → Provider, so the logged duration never
// exceeds the deadline.
package middleware
