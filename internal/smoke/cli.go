package smoke

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/addressbook/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to the console and, when logFile is set, to
// that file as well. Verbose runs log at debug level.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.InitWithOptions(logger.Options{Output: out}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Address Book Smoke Test
=======================

Drives the contact, greeting and interest endpoints of a running server and
verifies the responses, then creates contacts concurrently to check id
uniqueness.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -contacts int
        Number of contacts created by the concurrent burst (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -log string
        Also write log output to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Smoke test a local server
  go run ./cmd/smoke

  # Larger burst against another port
  go run ./cmd/smoke -contacts 20000 -workers 32 -url http://localhost:8080
`)
}
