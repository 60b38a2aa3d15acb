package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/refsight/refsight/internal/simgames"
)

// Default configuration constants.
const (
	defaultNumGames      = 20
	defaultEventsPerGame = 200
	defaultTimeout       = 30 * time.Second
	defaultSimTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the review service")
		upstreamAddr  = flag.String("upstream", ":9400", "Listen address for the synthetic upstream")
		numGames      = flag.Int("games", defaultNumGames, "Number of games to generate and exercise")
		eventsPerGame = flag.Int("events", defaultEventsPerGame, "Number of event markers per game")
		readers       = flag.Int("readers", runtime.NumCPU(), "Number of concurrent read workers per game")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile    = flag.String("output", "", "Output file for generated games (default: generated_games_TIMESTAMP.json)")
		logFile       = flag.String("log", "", "Log file for test output (default: sim_log_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simgames.ShowHelp()
		return
	}

	// Setup logging
	if err := simgames.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simgames.Config{
		BaseURL:       *baseURL,
		UpstreamAddr:  *upstreamAddr,
		NumGames:      *numGames,
		EventsPerGame: *eventsPerGame,
		Readers:       *readers,
		Timeout:       *timeout,
		OutputFile:    *outputFile,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	// Run the simulation
	if err := simgames.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
