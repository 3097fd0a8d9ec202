// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout toolloop.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single
// injectable dependency; [Noop] discards everything. The active [Span] travels
// through a [context.Context] via [ContextWithSpan] and [SpanFromContext].
//
// Concrete observers live in sub-packages: slogobs (log/slog) and zerologobs
// (github.com/rs/zerolog).
package observability
