package timed

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure stages reported on timed_sink_errors_total.
const (
	StageSeed   = "seed"
	StageInit   = "init"
	StageAppend = "append"
	StageLog    = "log"
)

// Metrics counts dispatches and contained failures.
// It never aggregates durations.
type Metrics struct {
	Records    *prometheus.CounterVec
	SinkErrors *prometheus.CounterVec
}

// NewMetrics builds the collectors and registers them on reg.
// A nil reg leaves them unregistered (still usable, e.g. in tests).
// If an identical collector is already registered, the existing one is reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timed_records_total",
			Help: "Timing measurements dispatched, by output kind.",
		}, []string{"output"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timed_sink_errors_total",
			Help: "Timing sink failures that were contained, by output kind and stage.",
		}, []string{"output", "stage"}),
	}
	if reg == nil {
		return m
	}
	m.Records = register(reg, m.Records)
	m.SinkErrors = register(reg, m.SinkErrors)
	return m
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) record(k Kind) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(k.String()).Inc()
}

func (m *Metrics) fail(k Kind, stage string) {
	if m == nil {
		return
	}
	m.SinkErrors.WithLabelValues(k.String(), stage).Inc()
}
