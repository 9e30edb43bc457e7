// Package logging builds the process-wide structured logger and threads it
// through request contexts. Everything downstream logs via [FromContext], so
// handlers and pipeline stages never carry a logger field of their own.
//
// Behaviour is controlled by two environment variables:
//
//	LOG_LEVEL  = debug | info | warn | error  (default: info)
//	LOG_FORMAT = json | text                  (default: json)
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// loggerKey is the private context key for the request-scoped logger.
type loggerKey struct{}

// levelNames maps LOG_LEVEL values to slog levels. Unknown values fall back
// to info rather than erroring; a misspelled level should not stop a server.
var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// New builds a [*slog.Logger] writing to stderr, configured from LOG_LEVEL
// and LOG_FORMAT. JSON output is the default; text is for local development.
func New() *slog.Logger {
	level, ok := levelNames[strings.ToLower(os.Getenv("LOG_LEVEL"))]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// WithLogger returns a copy of ctx carrying logger, typically a child logger
// annotated with request-scoped attributes such as request_id.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or [slog.Default] when none
// is present, so call sites never nil-check.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
