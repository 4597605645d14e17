// Package observability carries per-request logging context and lightweight
// timing spans.
package observability

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/fsblog/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RequestID string
	Format    string
	URIPath   string
	Mode      string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	lc := extractLogContext(ctx)
	lc.RequestID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithFormat adds the output format to the context.
func WithFormat(ctx context.Context, format string) context.Context {
	lc := extractLogContext(ctx)
	lc.Format = format
	return context.WithValue(ctx, logContextKey, lc)
}

// WithURIPath adds the requested URI path to the context.
func WithURIPath(ctx context.Context, uriPath string) context.Context {
	lc := extractLogContext(ctx)
	lc.URIPath = uriPath
	return context.WithValue(ctx, logContextKey, lc)
}

// WithMode records how the request arrived (http, cgi, cli).
func WithMode(ctx context.Context, mode string) context.Context {
	lc := extractLogContext(ctx)
	lc.Mode = mode
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

// Attrs returns slog attributes for the values set on ctx.
func Attrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}
	if lc.RequestID != "" {
		attrs = append(attrs, logfields.RequestID(lc.RequestID))
	}
	if lc.Mode != "" {
		attrs = append(attrs, slog.String("mode", lc.Mode))
	}
	if lc.Format != "" {
		attrs = append(attrs, logfields.Format(lc.Format))
	}
	if lc.URIPath != "" {
		attrs = append(attrs, logfields.URIPath(lc.URIPath))
	}
	return attrs
}

func logWithContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	slog.LogAttrs(ctx, level, msg, append(Attrs(ctx), attrs...)...)
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWithContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWithContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWithContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logWithContext(ctx, slog.LevelDebug, msg, attrs)
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
