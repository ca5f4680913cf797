package instrument

import (
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yeongki/timed/pkg/timed"
)

const tracerName = "github.com/yeongki/timed/pkg/timed/instrument"

type config struct {
	level      Level
	name       string
	tracer     trace.Tracer
	dispatcher *timed.Dispatcher
	logger     *zap.Logger
}

type Option func(*config)

// WithLevel sets the scope severity (default info).
func WithLevel(l Level) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithName overrides the label used for the scope and the measurement.
func WithName(name string) Option {
	return func(c *config) {
		if strings.TrimSpace(name) != "" {
			c.name = name
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer. Default: the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

// WithDispatcher overrides where measurements are recorded. Default: timed.Default().
func WithDispatcher(d *timed.Dispatcher) Option {
	return func(c *config) {
		c.dispatcher = d
	}
}

// WithLogger sets the logger whose level filter gates scope spans. Default: zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Attributes is the declarative form of the two optional settings a
// wrapped function accepts. Empty fields keep their defaults.
type Attributes struct {
	Level string `json:"level,omitempty" mapstructure:"level"`
	Name  string `json:"name,omitempty" mapstructure:"name"`
}

// Options converts a to Options.
func (a Attributes) Options() []Option {
	var opts []Option
	if strings.TrimSpace(a.Level) != "" {
		opts = append(opts, WithLevel(ParseLevel(a.Level)))
	}
	if strings.TrimSpace(a.Name) != "" {
		opts = append(opts, WithName(a.Name))
	}
	return opts
}

func newConfig(opts []Option) config {
	c := config{level: DefaultLevel}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.dispatcher == nil {
		c.dispatcher = timed.Default()
	}
	if c.logger == nil {
		c.logger = zap.L()
	}
	return c
}
