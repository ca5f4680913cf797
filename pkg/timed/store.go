package timed

import (
	"context"
	"fmt"
	"sync"
)

// Store holds the process-wide Output.
//
// Rules:
//   - Get never fails; a seed that cannot be read yields Disabled.
//   - Set and Refresh never fail; CSV initialization errors are logged and dropped.
//   - Critical sections only copy a value and always unlock via defer, so a panic
//     elsewhere can never leave the lock held. A panicking seed is recovered and the
//     last-written Output stays in place.
type Store struct {
	mu      sync.RWMutex
	once    sync.Once
	current Output

	seed    func() string
	logf    func(string, ...any)
	metrics *Metrics
}

// NewStore creates a Store. The seed is not read until first use.
func NewStore(opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		seed:    o.seed,
		logf:    o.logf,
		metrics: o.metrics,
	}
}

// Get returns the active Output, seeding it on first call.
func (s *Store) Get() Output {
	s.once.Do(s.init)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set installs out. A CSV file is created and given its header before out
// becomes visible, so a record right after Set always finds a ready file.
func (s *Store) Set(out Output) {
	// An explicit value supersedes the lazy seed.
	s.once.Do(func() {})
	s.prepare(out)
	s.install(out)
}

// Refresh re-reads the seed and installs the result exactly like Set.
// If the seed cannot be read, the current Output is kept.
func (s *Store) Refresh() {
	out, ok := s.readSeed()
	if !ok {
		return
	}
	s.Set(out)
}

// WithOutput returns a context whose recordings go to out instead of the
// shared Output. CSV initialization happens here, as with Set.
// The shared Output is never touched.
func (s *Store) WithOutput(ctx context.Context, out Output) context.Context {
	s.prepare(out)
	return context.WithValue(ctx, outputKey{}, out)
}

// Resolve returns the context override if present, else the shared Output.
func (s *Store) Resolve(ctx context.Context) Output {
	if out, ok := OutputFromContext(ctx); ok {
		return out
	}
	return s.Get()
}

func (s *Store) init() {
	out, ok := s.readSeed()
	if !ok {
		out = Disabled()
	}
	s.prepare(out)
	s.install(out)
}

func (s *Store) install(out Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = out
}

func (s *Store) prepare(out Output) {
	if out.Kind() != KindCSV {
		return
	}
	if err := initCSVFile(out.Path()); err != nil {
		s.metrics.fail(KindCSV, StageInit)
		s.logf("timed: csv init failed (ignored): %v", err)
	}
}

func (s *Store) readSeed() (out Output, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.fail(KindDisabled, StageSeed)
			s.logf("timed: seed read panicked (ignored): %v", fmt.Sprint(r))
			out, ok = Output{}, false
		}
	}()
	return ParseOutput(s.seed()), true
}

type outputKey struct{}

// OutputFromContext returns the override installed by Store.WithOutput, if any.
func OutputFromContext(ctx context.Context) (Output, bool) {
	if ctx == nil {
		return Output{}, false
	}
	out, ok := ctx.Value(outputKey{}).(Output)
	return out, ok
}
