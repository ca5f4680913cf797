// Package csvfile reads back timing CSV files.
package csvfile

import (
	"encoding/csv"
	"os"
	"strings"
)

// ReadLines returns the file's lines without the trailing empty one.
func ReadLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n"), nil
}

// ReadRecords parses the file as CSV, header included.
func ReadRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return csv.NewReader(f).ReadAll()
}
