package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// HandlerOptions configures NewHandler.
type HandlerOptions struct {
	Format Format
	Level  slog.Level
	// Output defaults to os.Stderr so that transcripts on stdout stay clean.
	Output io.Writer
}

// NewHandler returns the slog.Handler for opts.Format. Text and JSON use the
// standard handlers; compact uses compactHandler.
func NewHandler(opts HandlerOptions) slog.Handler {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: replaceLevel,
	}

	switch opts.Format {
	case FormatText:
		return slog.NewTextHandler(opts.Output, handlerOpts)
	case FormatJSON:
		return slog.NewJSONHandler(opts.Output, handlerOpts)
	default:
		return &compactHandler{
			level:  opts.Level,
			output: opts.Output,
			mu:     &sync.Mutex{},
		}
	}
}

// replaceLevel renders LevelTrace as "TRACE" instead of "DEBUG-4".
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(levelString(level))
		}
	}
	return a
}

// compactHandler writes "2006-01-02 15:04:05 LEVEL msg → {attrs}" lines.
type compactHandler struct {
	level  slog.Level
	output io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	group  string
}

func (h *compactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *compactHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, fmt.Sprintf(" %5s ", levelString(r.Level))...)
	buf = append(buf, r.Message...)

	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrs[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrs[h.key(attr.Key)] = attr.Value.Any()
		return true
	})

	if len(attrs) > 0 {
		data, err := json.Marshal(attrs)
		if err != nil {
			data = []byte(`"[json-error]"`)
		}
		buf = append(buf, " → "...)
		buf = append(buf, data...)
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

func (h *compactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.key(attr.Key)
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *compactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.key(name)
	return &clone
}

func (h *compactHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
