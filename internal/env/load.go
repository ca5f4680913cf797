// Package env reads environment-style configuration values.
// Values are whitespace-trimmed; interpreting them is the caller's job.
package env

import (
	"os"
	"strings"
)

// Lookup returns the trimmed value of key and whether it was set at all.
func Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Getter returns a func that re-reads key on every call. Unset reads as "".
func Getter(key string) func() string {
	return func() string {
		v, _ := Lookup(key)
		return v
	}
}
