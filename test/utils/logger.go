package utils

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"

	"github.com/yeongki/timed/pkg/timed"
)

// GinkgoLogger adapts timed.Logger to GinkgoWriter.
type GinkgoLogger struct{}

func (GinkgoLogger) Logf(format string, args ...any) {
	_, _ = fmt.Fprintf(GinkgoWriter, format+"\n", args...)
}

var _ timed.Logger = (*GinkgoLogger)(nil)

// RecordingLogger keeps every diagnostic line and mirrors it to GinkgoWriter.
type RecordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *RecordingLogger) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
	GinkgoLogger{}.Logf("%s", line)
}

// Lines returns a copy of what was logged so far.
func (l *RecordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

var _ timed.Logger = (*RecordingLogger)(nil)
