// Package instrument wraps functions so each call is timed and reported
// through a timed.Dispatcher.
//
// Every call opens a scope labeled with the function's own name (or the
// WithName override), measures wall-clock time around the body and records
// exactly once, after the body returns. Recording is deferred, so it also
// happens when the body panics; the panic is not swallowed.
//
//	var loadUser = instrument.FuncErr(func() (*User, error) { ... },
//		instrument.WithLevel(instrument.LevelDebug))
//
//	func handle(ctx context.Context) {
//		defer instrument.Track(ctx, "handle")()
//		...
//	}
package instrument

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"

	"github.com/yeongki/timed/pkg/timed"
)

// Scope is one timed invocation.
type Scope struct {
	ctx        context.Context
	label      string
	level      Level
	span       trace.Span
	dispatcher *timed.Dispatcher
	start      time.Time

	once    sync.Once
	elapsed time.Duration
}

// Start opens a scope labeled name (unless WithName overrides it).
// The span is only started when the scope level passes the logger's level filter;
// timing is recorded either way.
func Start(ctx context.Context, name string, opts ...Option) (context.Context, *Scope) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := newConfig(opts)
	label := name
	if c.name != "" {
		label = c.name
	}

	s := &Scope{
		label:      label,
		level:      c.level,
		dispatcher: c.dispatcher,
	}
	if spanEnabled(c) {
		ctx, s.span = c.tracer.Start(ctx, label,
			trace.WithAttributes(
				attribute.String("timed.level", c.level.String()),
				attribute.String("timed.function", label),
			),
		)
	}
	s.ctx = ctx
	s.start = time.Now()
	return ctx, s
}

// End records the elapsed time and closes the span. Later calls are no-ops
// returning the first result.
func (s *Scope) End() time.Duration {
	s.once.Do(func() {
		s.elapsed = time.Since(s.start)
		s.dispatcher.Observe(s.ctx, s.label, s.elapsed)
		if s.span != nil {
			s.span.SetAttributes(attribute.String("timed.duration_ms",
				timed.FormatDuration(float64(s.elapsed)/float64(time.Millisecond))))
			s.span.End()
		}
	})
	return s.elapsed
}

func (s *Scope) Label() string { return s.label }
func (s *Scope) Level() Level  { return s.level }

// spanEnabled applies the logger's level filter. A no-op logger filters nothing.
func spanEnabled(c config) bool {
	core := c.logger.Core()
	if !core.Enabled(zapcore.FatalLevel) {
		return true
	}
	return core.Enabled(c.level.ZapLevel())
}

// Track is Start for use with defer:
//
//	defer instrument.Track(ctx, "name")()
func Track(ctx context.Context, name string, opts ...Option) func() {
	_, s := Start(ctx, name, opts...)
	return func() { s.End() }
}
