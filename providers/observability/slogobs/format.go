package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is a single-line format with JSON attributes.
	// Example: 2025-11-03 10:40:35 DEBUG Span ended → {"span":"agent.decide"}
	FormatCompact Format = "compact"

	// FormatText is the key=value format of slog.TextHandler.
	FormatText Format = "text"

	// FormatJSON is the slog.JSONHandler format, for log aggregation.
	FormatJSON Format = "json"
)

// LevelTrace sits below slog.LevelDebug and is only emitted when requested.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat parses a format string. Unknown values yield FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// ParseLogLevel parses a level name. Unknown values yield slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FormatFromEnv reads TOOLLOOP_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(firstEnv("TOOLLOOP_LOG_FORMAT", "LOG_FORMAT"))
}

// LevelFromEnv reads TOOLLOOP_LOG_LEVEL, then LOG_LEVEL.
func LevelFromEnv() slog.Level {
	return ParseLogLevel(firstEnv("TOOLLOOP_LOG_LEVEL", "LOG_LEVEL"))
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
