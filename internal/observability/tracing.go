package observability

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/fsblog/internal/logfields"
)

// Span times one stage of a request and logs it when it ends.
type Span struct {
	ctx       context.Context
	name      string
	startTime time.Time
	attrs     []slog.Attr
	err       error
}

type spanContextKeyType string

const spanContextKey spanContextKeyType = "span"

// StartSpan starts a span named name.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	s := &Span{ctx: ctx, name: name, startTime: time.Now()}
	return context.WithValue(ctx, spanContextKey, s), s
}

// SpanFromContext returns the innermost span started on ctx.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	s, ok := ctx.Value(spanContextKey).(*Span)
	return s, ok
}

// SetAttr attaches an attribute logged when the span ends.
func (s *Span) SetAttr(attr slog.Attr) {
	s.attrs = append(s.attrs, attr)
}

// RecordError marks the span as failed.
func (s *Span) RecordError(err error) {
	if err != nil {
		s.err = err
	}
}

// End logs the span at debug level, or at warn level when it failed, and
// returns its duration.
func (s *Span) End() time.Duration {
	d := time.Since(s.startTime)
	attrs := append([]slog.Attr{
		slog.String("span", s.name),
		logfields.DurationMS(float64(d.Microseconds()) / 1000),
	}, s.attrs...)
	if s.err != nil {
		WarnContext(s.ctx, "Span failed", append(attrs, logfields.Error(s.err))...)
		return d
	}
	DebugContext(s.ctx, "Span ended", attrs...)
	return d
}
