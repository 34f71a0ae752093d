// Package logging defines the structured, context-aware logger used across
// learnjournal, with slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "relay request", "action", action, "entries", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backends for New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the named backend writing JSON lines to w.
// level is one of debug, info, warn, error (case-insensitive).
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(normalizeLevel(level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		return newZapLoggerTo(w, normalizeLevel(level))
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func normalizeLevel(level string) string {
	if level == "" {
		return "info"
	}
	return strings.ToLower(level)
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
