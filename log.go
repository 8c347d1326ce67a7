package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/config"
)

// setupLog points the default logger at the log file, or at stderr.
func setupLog(c config.LogConfig, toStderr bool) (func() error, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	if toStderr {
		log.SetOutput(os.Stderr)
		log.SetReportTimestamp(true)
		return func() error { return nil }, nil
	}

	log.SetOutput(io.Discard)

	// Log to file, if set
	if c.File == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}
