package timed

// Logger is the minimal diagnostics contract for pkg/timed.
// Keep it tiny so the core stays independent of any particular logging backend.
// It only receives internal failures (unwritable CSV path, panicking sink);
// measurements themselves go through the configured Output.
type Logger interface {
	Logf(format string, args ...any)
}

// NewLogf returns a safe log function.
// If l is nil, it returns a no-op func.
func NewLogf(l Logger) func(string, ...any) {
	if l == nil {
		return func(string, ...any) {}
	}
	return l.Logf
}

// LoggerFunc adapts a plain func to Logger.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Logf(format string, args ...any) { f(format, args...) }
