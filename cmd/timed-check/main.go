package main

import (
	"os"

	"github.com/yeongki/timed/internal/check"
)

func main() {
	if err := check.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
