package loadtest

import (
	"io"

	"github.com/okian/apiroute/pkg/logger"
)

// SetupLogging configures the global logger for a run. A non-empty logFile
// also receives every record through a rotating file.
func SetupLogging(logFile string, verbose bool) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.InitWithOptions(
		logger.WithLevel(level),
		logger.WithFile(logger.FileConfig{Path: logFile, MaxSizeMB: 50, MaxBackups: 2}),
	)
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `apiroute load test
==================

Sends a concurrent mix of requests to a running apiroute service and checks
each answer and the dispatcher counters.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -api-route string
        Public Api prefix (default "/api")
  -system-route string
        System Api prefix (default "/system")
  -requests int
        Number of requests to send (default 7000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write a JSON report to this file
  -log string
        Also log to this file
  -verbose
        Log every unexpected response
  -help
        Show this help message
`)
}
