package simgames

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/refsight/refsight/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete game simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting refsight game simulation",
		logger.String("baseURL", config.BaseURL),
		logger.String("upstreamAddr", config.UpstreamAddr),
		logger.Int("games", config.NumGames),
		logger.Int("eventsPerGame", config.EventsPerGame),
		logger.Int("readers", config.Readers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Generate games
	games, err := generateGames(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("game generation failed: %w", err)
	}

	// Step 2: Serve them as the synthetic upstream
	upstream := newUpstream(config.UpstreamAddr, games)
	upstream.Start(ctx)
	defer upstream.Stop(ctx)

	// Step 3: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 4: Exercise each game through the review workflow. The
	// service holds one game per session, so games run sequentially;
	// the read endpoints are hammered concurrently within each game.
	client := newHTTPClient(config.Timeout)
	for i, game := range games {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during simulation: %w", ctx.Err())
		default:
		}

		if err := exerciseGame(ctx, client, config, game, stats); err != nil {
			stats.Failures++
			log.Printf("⚠️  Game %d/%d (%s) failed: %v", i+1, len(games), game.ID, err)
			continue
		}
		stats.GamesExercised++

		if config.Verbose {
			log.Printf("📊 Progress: %d/%d games exercised (failures: %d)",
				i+1, len(games), stats.Failures)
		} else {
			fmt.Printf("\r🎮 Exercised: %d/%d games (failures: %d)",
				i+1, len(games), stats.Failures)
		}
	}
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Step 5: Cross-check the jobs endpoint against the generated slate
	if err := verifyJobs(ctx, client, config, games, stats); err != nil {
		log.Printf("⚠️  Job verification warning: %v", err)
	}

	// Step 6: Save games to file
	if err := saveGamesToFile(ctx, config, games); err != nil {
		logger.Get().Warn(ctx, "failed to save games to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.Failures > 0 {
		return fmt.Errorf("%d of %d games failed verification", stats.Failures, len(games))
	}
	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// exerciseGame runs the full review workflow for one game: select it,
// wait for its markers to land, then verify the timeline, selection,
// filter, and analysis behavior against the generated payload.
func exerciseGame(ctx context.Context, client *HTTPClient, config *Config, game Game, stats *Stats) error {
	// Select the game; the snapshot must come back reset.
	var sel Selection
	if err := client.postJSON(ctx, config.BaseURL+"/games/select", map[string]string{"game_id": game.ID}, &sel); err != nil {
		return fmt.Errorf("game select failed: %w", err)
	}
	if sel.GameID != game.ID || sel.SelectedEventID != "" || sel.SelectedClipID != "" {
		return fmt.Errorf("selection not reset after game switch: %+v", sel)
	}

	// The marker fetch is asynchronous; poll until the timeline fills.
	timeline, err := awaitTimeline(ctx, client, config, countEvents(game.Markers))
	if err != nil {
		return err
	}
	stats.TimelineChecks++

	if err := verifyTimeline(game, timeline); err != nil {
		return err
	}

	if err := verifySelectionConsistency(ctx, client, config, game, timeline, stats); err != nil {
		return err
	}

	if err := verifyFilterConsistency(ctx, client, config, timeline, stats); err != nil {
		return err
	}

	if err := verifyAnalysis(ctx, client, config, game, stats); err != nil {
		return err
	}

	// Hammer the read endpoints concurrently to shake out races between
	// the fetch workers and the session lock.
	readBurst(ctx, client, config)

	return nil
}

// awaitTimeline polls the timeline until it reports the expected number
// of events or the poll budget runs out.
func awaitTimeline(ctx context.Context, client *HTTPClient, config *Config, want int) ([]TimelineEntry, error) {
	deadline := time.Now().Add(TimelinePollBudget)
	for {
		var timeline []TimelineEntry
		if err := client.getJSON(ctx, config.BaseURL+"/timeline", &timeline); err != nil {
			return nil, fmt.Errorf("timeline fetch failed: %w", err)
		}
		if len(timeline) >= want {
			return timeline, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeline incomplete after %s: got %d of %d events",
				TimelinePollBudget, len(timeline), want)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(TimelinePollInterval):
		}
	}
}

// countEvents counts the event markers in a generated marker set.
func countEvents(markers []Marker) int {
	n := 0
	for _, m := range markers {
		if m.Kind == "event" {
			n++
		}
	}
	return n
}

// readBurst runs concurrent timeline and selection reads for one game.
func readBurst(ctx context.Context, client *HTTPClient, config *Config) {
	var wg sync.WaitGroup
	for i := 0; i < config.Readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var timeline []TimelineEntry
			_ = client.getJSON(ctx, config.BaseURL+"/timeline", &timeline)
			var sel Selection
			_ = client.getJSON(ctx, config.BaseURL+"/selection", &sel)
		}()
	}
	wg.Wait()
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveGamesToFile saves the generated games to a JSON file.
func saveGamesToFile(ctx context.Context, config *Config, games []Game) error {
	if len(games) == 0 {
		return fmt.Errorf("no games to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_games_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := sonic.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal games: %w", err)
	}
	if err := os.WriteFile(filename, data, logFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "games saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, gamesPerMinute float64

	if stats.GamesGenerated > 0 {
		successRate = float64(stats.GamesExercised) / float64(stats.GamesGenerated) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		gamesPerMinute = float64(stats.GamesExercised) / stats.Duration.Minutes()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("gamesGenerated", stats.GamesGenerated),
		logger.Int("markersGenerated", stats.MarkersGenerated),
		logger.Int("gamesExercised", stats.GamesExercised),
		logger.Int("timelineChecks", stats.TimelineChecks),
		logger.Int("selectionChecks", stats.SelectionChecks),
		logger.Int("filterChecks", stats.FilterChecks),
		logger.Int("analysisChecks", stats.AnalysisChecks),
		logger.Int("failures", stats.Failures),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("gamesPerMinute", gamesPerMinute))
}
