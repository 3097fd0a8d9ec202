package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leofalp/toolloop/providers/observability"
)

// Observer implements observability.Provider with a slog.Logger.
type Observer struct {
	logger *slog.Logger

	mu       sync.Mutex
	counters map[string]*counter
}

var _ observability.Provider = (*Observer)(nil)

// New creates a slog-based observer.
//
//	observer := slogobs.New(
//	    slogobs.WithFormat(slogobs.FormatJSON),
//	    slogobs.WithLevel(slog.LevelDebug),
//	)
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(NewHandler(HandlerOptions{
			Format: cfg.format,
			Level:  cfg.level,
			Output: cfg.output,
		}))
	}

	return &Observer{
		logger:   logger,
		counters: make(map[string]*counter),
	}
}

// Logger returns the underlying slog.Logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// --- TRACING ---

// StartSpan logs the span start at debug level. The returned context carries
// the span so that nested components can add events to it.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		name:      name,
		startTime: time.Now(),
		logger:    o.logger,
		attrs:     append([]observability.Attribute{}, attrs...),
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Span started", span.logAttrs("span.start")...)
	return observability.ContextWithSpan(ctx, span), span
}

type slogSpan struct {
	name      string
	startTime time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
	ended bool
}

// logAttrs must be called with mu held or before the span is shared.
func (s *slogSpan) logAttrs(event string, extra ...slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(s.attrs)+len(extra)+2)
	out = append(out, slog.String("span", s.name), slog.String("event", event))
	out = append(out, extra...)
	for _, attr := range s.attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	return out
}

// End logs the span end with its duration. Only the first call logs.
func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	attrs := s.logAttrs("span.end", slog.Duration(observability.AttrDuration, time.Since(s.startTime)))
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span ended", attrs...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, code.String()))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

// RecordError attaches err to the span and logs it at error level.
func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs = append(s.attrs, observability.Error(err))
	s.logger.LogAttrs(context.Background(), slog.LevelError, "Span error",
		slog.String("span", s.name),
		slog.String(observability.AttrError, err.Error()),
	)
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	logAttrs := []slog.Attr{slog.String("span", s.name), slog.String("event", name)}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span event", logAttrs...)
}

// --- METRICS ---

// Counter returns the named counter, creating it on first use.
func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.counters[name]
	if !ok {
		c = &counter{name: name, logger: o.logger}
		o.counters[name] = c
	}
	return c
}

// CounterValue returns the running total of the named counter, or 0 if it
// was never incremented.
func (o *Observer) CounterValue(name string) int64 {
	o.mu.Lock()
	c, ok := o.counters[name]
	o.mu.Unlock()
	if !ok {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Histogram returns a histogram that logs every observation.
func (o *Observer) Histogram(name string) observability.Histogram {
	return histogram{name: name, logger: o.logger}
}

type counter struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	value int64
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += value
	current := c.value
	c.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("metric", c.name),
		slog.String("type", "counter"),
		slog.Int64("value", current),
		slog.Int64("delta", value),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Counter", logAttrs...)
}

type histogram struct {
	name   string
	logger *slog.Logger
}

func (h histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	logAttrs := []slog.Attr{
		slog.String("metric", h.name),
		slog.String("type", "histogram"),
		slog.Float64("value", value),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "Histogram", logAttrs...)
}

// --- LOGGING ---

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, LevelTrace, msg, attrs...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelDebug, msg, attrs...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelWarn, msg, attrs...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, slog.LevelError, msg, attrs...)
}

func (o *Observer) log(ctx context.Context, level slog.Level, msg string, attrs ...observability.Attribute) {
	if !o.logger.Enabled(ctx, level) {
		return
	}
	logAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	o.logger.LogAttrs(ctx, level, msg, logAttrs...)
}
