package simgames

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/refsight/refsight/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the game simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`RefSight Game Simulation Tool
=============================

Generates synthetic games, serves them as a fake detection backend, and
drives a running review service through the full selection, filter, and
analysis workflow, verifying consistency along the way.

Point the service's upstream at this tool before running it:

  REFSIGHT_UPSTREAM_BASE_URL=http://localhost:9400 ./refsight

Usage:
  go run cmd/test-games/main.go [options]

Options:
  -url string
        Base URL of the review service (default "http://localhost:9080")
  -upstream string
        Listen address for the synthetic upstream (default ":9400")
  -games int
        Number of games to generate and exercise (default 20)
  -events int
        Number of event markers per game (default 200)
  -readers int
        Number of concurrent read workers per game (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated games (default: generated_games_TIMESTAMP.json)
  -log string
        Log file for test output (default: sim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/test-games/main.go

  # A large slate of dense games
  go run cmd/test-games/main.go -games 100 -events 1000

  # Against a service on another host
  go run cmd/test-games/main.go -url http://review.internal:9080 -upstream :9400
`)
}
