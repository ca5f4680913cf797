package timed

import (
	"go.uber.org/zap"

	"github.com/yeongki/timed/internal/env"
)

// Option configures a Store or a Dispatcher.
// Options that do not apply to the value being built are ignored.
type Option func(*options)

type options struct {
	seed       func() string
	logf       func(string, ...any)
	metrics    *Metrics
	structured *zap.Logger
}

// WithSeed overrides where the environment-style seed is read from.
// The func is called on lazy initialization and on every Refresh.
func WithSeed(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.seed = fn
		}
	}
}

// WithDiagnostics receives contained failures. Default: discard.
func WithDiagnostics(l Logger) Option {
	return func(o *options) {
		o.logf = NewLogf(l)
	}
}

// WithMetrics attaches self-metrics. Default: none.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithStructuredLogger sets the logger used by the StructuredLog output.
// Default: zap.L(), resolved on every record so zap.ReplaceGlobals is honored.
func WithStructuredLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.structured = l
	}
}

// buildOptions applies opts and fills safe defaults.
func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.seed == nil {
		o.seed = env.Getter(EnvVar)
	}
	if o.logf == nil {
		o.logf = NewLogf(nil)
	}
	return o
}
