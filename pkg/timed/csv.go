package timed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// csvHeader is written exactly once, when a CSV output is selected.
var csvHeader = []string{"function", "duration_ms"}

// csvMu serializes every CSV file operation in the process so that rows from
// concurrent recorders never interleave and truncation never races an append.
var csvMu sync.Mutex

// FormatDuration renders milliseconds with exactly three fractional digits.
// Negative input (clock skew) clamps to zero.
func FormatDuration(ms float64) string {
	if ms < 0 || ms != ms {
		ms = 0
	}
	return strconv.FormatFloat(ms, 'f', 3, 64)
}

// initCSVFile creates or truncates path and writes the header row.
func initCSVFile(path string) error {
	csvMu.Lock()
	defer csvMu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeRecord(f, csvHeader); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// appendCSVRow opens path for appending only; a missing file is an error,
// never a reason to recreate it without its header.
func appendCSVRow(path, label string, ms float64) error {
	csvMu.Lock()
	defer csvMu.Unlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := writeRecord(f, []string{label, FormatDuration(ms)}); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeRecord quotes fields containing commas, quotes or newlines (RFC 4180).
func writeRecord(f *os.File, record []string) error {
	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", f.Name(), err)
	}
	return nil
}
