// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans become debug records at start and end, counters keep a running total
// that can be read back with [Observer.CounterValue], and log calls are
// forwarded at the matching level. Output format and level default to the
// TOOLLOOP_LOG_FORMAT and TOOLLOOP_LOG_LEVEL environment variables.
package slogobs
