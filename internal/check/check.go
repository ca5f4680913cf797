// Package check runs the end-to-end timing scenarios: instrumented functions
// are called under each output and the observable side effects are verified.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yeongki/timed/internal/artifacts"
	"github.com/yeongki/timed/internal/csvfile"
	"github.com/yeongki/timed/pkg/timed"
	"github.com/yeongki/timed/pkg/timed/instrument"
)

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Config is everything a run needs. Zero values fall back to safe defaults.
type Config struct {
	// Seed is the TIMED_OUTPUT-style value checked by the seed scenario.
	Seed string
	// CSVPath is the file used by the csv scenarios.
	CSVPath    string
	Iterations int
	Attributes instrument.Attributes

	Logger     *zap.Logger
	Tracer     trace.Tracer
	Registerer prometheus.Registerer
	Report     artifacts.JSONFileWriter
}

// ScenarioResult is one verified scenario.
type ScenarioResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
	Rows   int    `json:"rows,omitempty"`
}

// Report is written as JSON when Config.Report has a path.
type Report struct {
	RunID     string           `json:"run_id"`
	Seed      string           `json:"seed"`
	CSVPath   string           `json:"csv_path"`
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    bool             `json:"passed"`
}

// ErrFailed is returned by Run when any scenario failed.
var ErrFailed = errors.New("check: one or more scenarios failed")

func defaultLevelWork() { time.Sleep(20 * time.Millisecond) }

func debugLevelWork() { time.Sleep(10 * time.Millisecond) }

func configuredWork() { time.Sleep(5 * time.Millisecond) }

var durationField = regexp.MustCompile(`^\d+\.\d{3}$`)

type runner struct {
	cfg  Config
	d    *timed.Dispatcher
	logf func(string, ...any)

	work       func()
	debugWork  func()
	configured func()
	labels     []string
}

// Run executes every scenario in order and returns the report.
// The report is written even when scenarios fail.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = "timing_results.csv"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.L()
	}

	r := newRunner(cfg)
	rep := Report{
		RunID:   time.Now().UTC().Format(time.RFC3339Nano),
		Seed:    cfg.Seed,
		CSVPath: cfg.CSVPath,
		Passed:  true,
	}

	for _, sc := range []struct {
		name string
		fn   func(context.Context) ScenarioResult
	}{
		{"seed", r.seed},
		{"structured-log", r.structuredLog},
		{"csv", r.csv},
		{"disabled", r.disabled},
	} {
		res := sc.fn(ctx)
		res.Name = sc.name
		if res.Status != StatusPass {
			rep.Passed = false
		}
		r.logf("scenario %s: %s %s", res.Name, res.Status, res.Detail)
		rep.Scenarios = append(rep.Scenarios, res)
	}

	if err := cfg.Report.WriteJSON(rep); err != nil {
		return rep, fmt.Errorf("write report: %w", err)
	}
	if !rep.Passed {
		return rep, ErrFailed
	}
	return rep, nil
}

func newRunner(cfg Config) *runner {
	sugar := cfg.Logger.Sugar()
	logf := func(format string, args ...any) { sugar.Infof(format, args...) }

	d := timed.New(
		timed.WithSeed(func() string { return cfg.Seed }),
		timed.WithStructuredLogger(cfg.Logger),
		timed.WithDiagnostics(timed.LoggerFunc(sugar.Warnf)),
		timed.WithMetrics(timed.NewMetrics(cfg.Registerer)),
	)

	base := []instrument.Option{
		instrument.WithDispatcher(d),
		instrument.WithLogger(cfg.Logger),
	}
	if cfg.Tracer != nil {
		base = append(base, instrument.WithTracer(cfg.Tracer))
	}
	with := func(extra ...instrument.Option) []instrument.Option {
		return append(append([]instrument.Option{}, base...), extra...)
	}

	configuredLabel := instrument.FuncName(configuredWork)
	if cfg.Attributes.Name != "" {
		configuredLabel = cfg.Attributes.Name
	}

	return &runner{
		cfg:        cfg,
		d:          d,
		logf:       logf,
		work:       instrument.Func(defaultLevelWork, with()...),
		debugWork:  instrument.Func(debugLevelWork, with(instrument.WithLevel(instrument.LevelDebug))...),
		configured: instrument.Func(configuredWork, with(cfg.Attributes.Options()...)...),
		labels: []string{
			instrument.FuncName(defaultLevelWork),
			instrument.FuncName(debugLevelWork),
			configuredLabel,
		},
	}
}

func (r *runner) callAll() {
	for i := 0; i < r.cfg.Iterations; i++ {
		r.work()
		r.debugWork()
		r.configured()
	}
}

func pass(detail string) ScenarioResult { return ScenarioResult{Status: StatusPass, Detail: detail} }

func fail(format string, args ...any) ScenarioResult {
	return ScenarioResult{Status: StatusFail, Detail: fmt.Sprintf(format, args...)}
}

// seed: Refresh picks up the configured seed exactly per the TIMED_OUTPUT mapping.
func (r *runner) seed(context.Context) ScenarioResult {
	r.d.Store().Refresh()
	want := timed.ParseOutput(r.cfg.Seed)
	got := r.d.Store().Get()
	if got != want {
		return fail("seed %q resolved to %s, want %s", r.cfg.Seed, got, want)
	}
	if want.Kind() == timed.KindCSV {
		lines, err := csvfile.ReadLines(want.Path())
		if err != nil {
			return fail("seeded csv not initialized: %v", err)
		}
		if len(lines) != 1 || lines[0] != "function,duration_ms" {
			return fail("seeded csv has %d lines, want header only", len(lines))
		}
	}
	return pass(got.String())
}

// structured-log: measurements go to the log and no CSV file appears.
func (r *runner) structuredLog(context.Context) ScenarioResult {
	if err := os.Remove(r.cfg.CSVPath); err != nil && !os.IsNotExist(err) {
		return fail("cleanup %s: %v", r.cfg.CSVPath, err)
	}
	r.d.Store().Set(timed.StructuredLog())
	r.callAll()

	if _, err := os.Stat(r.cfg.CSVPath); err == nil {
		return fail("%s was created while logging", r.cfg.CSVPath)
	}
	return pass("no csv file created")
}

// csv: header plus one well-formed row per call, labeled by function.
func (r *runner) csv(context.Context) ScenarioResult {
	r.d.Store().Set(timed.CSVFile(r.cfg.CSVPath))
	r.callAll()

	recs, err := csvfile.ReadRecords(r.cfg.CSVPath)
	if err != nil {
		return fail("read %s: %v", r.cfg.CSVPath, err)
	}
	want := len(r.labels)*r.cfg.Iterations + 1
	if len(recs) != want {
		return fail("%s has %d lines, want %d", r.cfg.CSVPath, len(recs), want)
	}
	if recs[0][0] != "function" || recs[0][1] != "duration_ms" {
		return fail("unexpected header %v", recs[0])
	}
	seen := map[string]int{}
	for _, rec := range recs[1:] {
		if len(rec) != 2 || !durationField.MatchString(rec[1]) {
			return fail("malformed row %v", rec)
		}
		seen[rec[0]]++
	}
	for _, l := range r.labels {
		if seen[l] != r.cfg.Iterations {
			return fail("label %s recorded %d times, want %d", l, seen[l], r.cfg.Iterations)
		}
	}
	res := pass(fmt.Sprintf("labels %v", r.labels))
	res.Rows = len(recs) - 1
	return res
}

// disabled: calls leave the previously selected file untouched.
func (r *runner) disabled(context.Context) ScenarioResult {
	before, err := os.ReadFile(r.cfg.CSVPath)
	if err != nil {
		return fail("read %s: %v", r.cfg.CSVPath, err)
	}
	r.d.Store().Set(timed.Disabled())
	r.callAll()

	after, err := os.ReadFile(r.cfg.CSVPath)
	if err != nil {
		return fail("read %s: %v", r.cfg.CSVPath, err)
	}
	if string(before) != string(after) {
		return fail("%s changed while disabled", r.cfg.CSVPath)
	}
	return pass("file unchanged")
}
