package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON-structured logger writing to stderr at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level. Anything
// else yields info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromEnv builds a logger whose level comes from LOG_LEVEL, falling back to
// fallback when the variable is unset.
func FromEnv(fallback string) *slog.Logger {
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		return New(ParseLevel(v))
	}
	return New(ParseLevel(fallback))
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrNop returns l, or a Nop logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// Default is the default logger instance.
var Default = New(slog.LevelInfo)
