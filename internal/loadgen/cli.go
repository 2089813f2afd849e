package loadgen

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/screener/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initializes the global logger to write to stdout and, when
// logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`Screener Load Tool
==================

Uploads synthetic resumes concurrently under one session and checks that
every response is ranked and that the session ends up holding every
accepted resume.

Usage:
  screen-load [options]

Options:
  -url string         Base URL of the service (default "http://localhost:9080")
  -requests int       Number of upload requests (default 20)
  -docs int           Resumes per request (default 10)
  -workers int        Concurrent uploads (default CPU cores)
  -timeout duration   HTTP request timeout (default 60s)
  -analytics          Post to /api/analytics
  -invalid int        Every Nth resume is an unsupported file (default 0)
  -seed int           Generator seed (default 1)
  -output string      Write a JSON report to this file
  -log string         Also log to this file
  -verbose            Log every response
  -help               Show this help message

Examples:
  screen-load -requests 40 -docs 25 -workers 8
  screen-load -analytics -invalid 7 -output report.json
`)
}
