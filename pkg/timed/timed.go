// Package timed configures where function timings go and dispatches each
// measurement to that destination.
//
// The destination is one of Disabled, StructuredLog or CSVFile(path). It is
// seeded from the TIMED_OUTPUT environment variable on first use:
//
//	unset, "", "off" -> Disabled
//	"tracing"        -> StructuredLog (zap, info level)
//	anything else    -> CSVFile(value)
//
// Timing is diagnostic only: no function in this package returns an error or
// panics because a measurement could not be written.
package timed

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns the process-wide Dispatcher. Its metrics are registered on
// prometheus.DefaultRegisterer.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		defaultDispatcher = New(WithMetrics(NewMetrics(prometheus.DefaultRegisterer)))
	})
	return defaultDispatcher
}

// Get returns the process-wide Output.
func Get() Output { return Default().Store().Get() }

// Set installs out as the process-wide Output.
func Set(out Output) { Default().Store().Set(out) }

// Refresh re-seeds the process-wide Output from TIMED_OUTPUT.
func Refresh() { Default().Store().Refresh() }

// WithOutput scopes out to ctx, leaving the process-wide Output alone.
func WithOutput(ctx context.Context, out Output) context.Context {
	return Default().Store().WithOutput(ctx, out)
}

// Record dispatches one measurement through the process-wide Dispatcher.
func Record(label string, durationMs float64) { Default().Record(label, durationMs) }

// RecordContext is Record honoring a WithOutput override on ctx.
func RecordContext(ctx context.Context, label string, durationMs float64) {
	Default().RecordContext(ctx, label, durationMs)
}
