package timed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Dispatcher routes each measurement to the Output held by its Store.
//
// Best-effort: a failing sink (unwritable file, panicking log backend) is
// counted and logged to diagnostics, never returned or re-panicked.
type Dispatcher struct {
	store      *Store
	structured *zap.Logger
	logf       func(string, ...any)
	metrics    *Metrics
}

// New creates a Dispatcher over a fresh Store built from the same options.
func New(opts ...Option) *Dispatcher {
	return NewDispatcher(NewStore(opts...), opts...)
}

// NewDispatcher creates a Dispatcher over store.
func NewDispatcher(store *Store, opts ...Option) *Dispatcher {
	o := buildOptions(opts)
	if o.metrics == nil {
		o.metrics = store.metrics
	}
	return &Dispatcher{
		store:      store,
		structured: o.structured,
		logf:       o.logf,
		metrics:    o.metrics,
	}
}

func (d *Dispatcher) Store() *Store { return d.store }

// Record dispatches one measurement using the shared Output.
func (d *Dispatcher) Record(label string, durationMs float64) {
	d.RecordContext(context.Background(), label, durationMs)
}

// Observe is Record for a time.Duration, honoring any context override.
func (d *Dispatcher) Observe(ctx context.Context, label string, elapsed time.Duration) {
	d.RecordContext(ctx, label, float64(elapsed)/float64(time.Millisecond))
}

// RecordContext dispatches one measurement, preferring the Output installed
// on ctx by Store.WithOutput.
func (d *Dispatcher) RecordContext(ctx context.Context, label string, durationMs float64) {
	out := d.store.Resolve(ctx)

	switch out.Kind() {
	case KindDisabled:
		return
	case KindStructuredLog:
		d.emit(label, durationMs)
	case KindCSV:
		if err := appendCSVRow(out.Path(), label, durationMs); err != nil {
			d.metrics.fail(KindCSV, StageAppend)
			d.logf("timed: csv append skipped: %v", err)
			return
		}
	}
	d.metrics.record(out.Kind())
}

func (d *Dispatcher) emit(label string, durationMs float64) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.fail(KindStructuredLog, StageLog)
			d.logf("timed: log sink panicked (ignored): %v", r)
		}
	}()

	l := d.structured
	if l == nil {
		l = zap.L()
	}
	ms := FormatDuration(durationMs)
	l.Info(fmt.Sprintf("%s executed in %s ms", label, ms),
		zap.String("function", label),
		zap.String("duration_ms", ms),
	)
}
