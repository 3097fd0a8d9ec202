// Package zerologobs implements observability.Provider with a zerolog.Logger.
// Spans log their start and end through a child logger that carries the span
// name and attributes; metrics are logged as they are recorded.
package zerologobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/leofalp/toolloop/providers/observability"
)

// Observer routes tracing, metrics and logs through zerolog.
type Observer struct {
	logger zerolog.Logger
}

var _ observability.Provider = (*Observer)(nil)

// New creates an observer writing through logger.
func New(logger zerolog.Logger) *Observer {
	return &Observer{logger: logger}
}

// ParseLevel maps a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// --- TRACING ---

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	builder := o.logger.With().Str("span", name)
	for _, attr := range attrs {
		builder = builder.Interface(attr.Key, attr.Value)
	}
	span := &zerologSpan{
		logger:    builder.Logger(),
		startTime: time.Now(),
	}
	span.logger.Debug().Str("event", "span.start").Msg("Span started")
	return observability.ContextWithSpan(ctx, span), span
}

type zerologSpan struct {
	logger    zerolog.Logger
	startTime time.Time

	mu    sync.Mutex
	attrs []observability.Attribute
	err   error
	ended bool
}

// End logs the span end. A span that recorded an error ends at error level.
func (s *zerologSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true

	event := s.logger.Debug()
	if s.err != nil {
		event = s.logger.Error().Err(s.err)
	}
	for _, attr := range s.attrs {
		event = event.Interface(attr.Key, attr.Value)
	}
	event.
		Str("event", "span.end").
		Dur(observability.AttrDuration, time.Since(s.startTime)).
		Msg("Span ended")
}

func (s *zerologSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *zerologSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, code.String()))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

func (s *zerologSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *zerologSpan) AddEvent(name string, attrs ...observability.Attribute) {
	event := s.logger.Debug()
	for _, attr := range attrs {
		event = event.Interface(attr.Key, attr.Value)
	}
	event.Str("event", name).Msg("Span event")
}

// --- METRICS ---

func (o *Observer) Counter(name string) observability.Counter {
	return metric{name: name, kind: "counter", logger: o.logger}
}

func (o *Observer) Histogram(name string) observability.Histogram {
	return metric{name: name, kind: "histogram", logger: o.logger}
}

type metric struct {
	name   string
	kind   string
	logger zerolog.Logger
}

func (m metric) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	m.emit(ctx, attrs).Int64("delta", value).Msg("Counter")
}

func (m metric) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	m.emit(ctx, attrs).Float64("value", value).Msg("Histogram")
}

func (m metric) emit(ctx context.Context, attrs []observability.Attribute) *zerolog.Event {
	event := m.logger.Debug().Ctx(ctx).Str("metric", m.name).Str("type", m.kind)
	for _, attr := range attrs {
		event = event.Interface(attr.Key, attr.Value)
	}
	return event
}

// --- LOGGING ---

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, o.logger.Trace(), msg, attrs)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, o.logger.Debug(), msg, attrs)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, o.logger.Info(), msg, attrs)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, o.logger.Warn(), msg, attrs)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.log(ctx, o.logger.Error(), msg, attrs)
}

// log is a no-op for disabled levels: zerolog hands back a nil event.
func (o *Observer) log(ctx context.Context, event *zerolog.Event, msg string, attrs []observability.Attribute) {
	if event == nil {
		return
	}
	event = event.Ctx(ctx)
	for _, attr := range attrs {
		event = event.Interface(attr.Key, attr.Value)
	}
	event.Msg(msg)
}
