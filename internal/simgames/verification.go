package simgames

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// verifyTimeline checks the unfiltered timeline against the generated
// marker set: every event present, upstream order preserved, clip badges
// only where a clip was generated.
func verifyTimeline(game Game, timeline []TimelineEntry) error {
	want := countEvents(game.Markers)
	if len(timeline) != want {
		return fmt.Errorf("timeline has %d events, generated %d", len(timeline), want)
	}

	anchored := anchoredClips(game.Markers)
	prev := -1.0
	for i, entry := range timeline {
		if entry.Timestamp < prev {
			return fmt.Errorf("timeline out of order at index %d: %.2f after %.2f", i, entry.Timestamp, prev)
		}
		prev = entry.Timestamp

		if entry.HasClip != (anchored[entry.ID] != "") {
			return fmt.Errorf("event %s clip badge is %v but generated payload says otherwise", entry.ID, entry.HasClip)
		}
	}
	return nil
}

// verifySelectionConsistency selects a sample of events and checks that
// each snapshot carries the right clip: the first generated clip anchored
// to the event, or none at all.
func verifySelectionConsistency(ctx context.Context, client *HTTPClient, config *Config, game Game, timeline []TimelineEntry, stats *Stats) error {
	anchored := anchoredClips(game.Markers)

	for _, entry := range sampleEntries(timeline) {
		var sel Selection
		if err := client.postJSON(ctx, config.BaseURL+"/selection/event", map[string]string{"event_id": entry.ID}, &sel); err != nil {
			return fmt.Errorf("event select failed: %w", err)
		}
		stats.SelectionChecks++

		if sel.SelectedEventID != entry.ID {
			return fmt.Errorf("selected event is %q, wanted %q", sel.SelectedEventID, entry.ID)
		}
		if sel.ManualClip {
			return fmt.Errorf("event selection of %q left manual clip mode on", entry.ID)
		}
		if want := anchored[entry.ID]; sel.SelectedClipID != want {
			return fmt.Errorf("event %q resolved clip %q, wanted %q", entry.ID, sel.SelectedClipID, want)
		}
	}

	// Clearing the selection must drop both event and clip.
	var sel Selection
	if err := client.postJSON(ctx, config.BaseURL+"/selection/event", map[string]string{"event_id": ""}, &sel); err != nil {
		return fmt.Errorf("selection clear failed: %w", err)
	}
	stats.SelectionChecks++
	if sel.SelectedEventID != "" || sel.SelectedClipID != "" {
		return fmt.Errorf("selection not cleared: %+v", sel)
	}
	return nil
}

// verifyFilterConsistency toggles filters and checks the timeline counts:
// a toggle applied twice must restore the unfiltered view, and every
// surviving entry must actually satisfy the active criteria.
func verifyFilterConsistency(ctx context.Context, client *HTTPClient, config *Config, timeline []TimelineEntry, stats *Stats) error {
	baseline := len(timeline)

	// Pick a foul type that actually occurs; games without fouls skip
	// the set-axis check.
	foulType, foulCount := dominantFoulType(timeline)
	if foulType != "" {
		var f Filters
		toggle := map[string]any{"axis": "foul_type", "value": foulType}
		if err := client.postJSON(ctx, config.BaseURL+"/filters/toggle", toggle, &f); err != nil {
			return fmt.Errorf("foul type toggle failed: %w", err)
		}

		var filtered []TimelineEntry
		if err := client.getJSON(ctx, config.BaseURL+"/timeline", &filtered); err != nil {
			return fmt.Errorf("filtered timeline fetch failed: %w", err)
		}
		stats.FilterChecks++
		if len(filtered) != foulCount {
			return fmt.Errorf("foul filter %q kept %d entries, wanted %d", foulType, len(filtered), foulCount)
		}
		for _, entry := range filtered {
			if entry.FoulType != foulType {
				return fmt.Errorf("foul filter %q leaked entry %s with foul type %q", foulType, entry.ID, entry.FoulType)
			}
		}

		// Toggling the same value again must restore the full view.
		if err := client.postJSON(ctx, config.BaseURL+"/filters/toggle", toggle, &f); err != nil {
			return fmt.Errorf("foul type untoggle failed: %w", err)
		}
		if err := client.getJSON(ctx, config.BaseURL+"/timeline", &filtered); err != nil {
			return fmt.Errorf("restored timeline fetch failed: %w", err)
		}
		stats.FilterChecks++
		if len(filtered) != baseline {
			return fmt.Errorf("untoggle left %d entries, wanted %d", len(filtered), baseline)
		}
	}

	// Confidence threshold: every survivor must carry a confidence at or
	// above the bound.
	threshold := 0.9
	if err := client.postJSON(ctx, config.BaseURL+"/filters/toggle",
		map[string]any{"axis": "min_confidence", "min": threshold}, nil); err != nil {
		return fmt.Errorf("confidence filter failed: %w", err)
	}
	var confident []TimelineEntry
	if err := client.getJSON(ctx, config.BaseURL+"/timeline", &confident); err != nil {
		return fmt.Errorf("confidence timeline fetch failed: %w", err)
	}
	stats.FilterChecks++
	for _, entry := range confident {
		if entry.Confidence == nil || *entry.Confidence < threshold {
			return fmt.Errorf("confidence filter leaked entry %s", entry.ID)
		}
	}

	// Clearing filters restores the unfiltered view.
	resp, err := client.Delete(ctx, config.BaseURL+"/filters")
	if err != nil {
		return fmt.Errorf("filter clear failed: %w", err)
	}
	_ = resp.Body.Close()

	var restored []TimelineEntry
	if err := client.getJSON(ctx, config.BaseURL+"/timeline", &restored); err != nil {
		return fmt.Errorf("cleared timeline fetch failed: %w", err)
	}
	stats.FilterChecks++
	if len(restored) != baseline {
		return fmt.Errorf("filter clear left %d entries, wanted %d", len(restored), baseline)
	}
	return nil
}

// verifyAnalysis fetches the referee analysis for the first clipped event
// and checks the exactness flag against the generated persona tags.
func verifyAnalysis(ctx context.Context, client *HTTPClient, config *Config, game Game, stats *Stats) error {
	eventID := firstClippedEvent(game.Markers)
	if eventID == "" {
		return nil // nothing to analyze in this game
	}

	var a Analysis
	url := config.BaseURL + "/events/" + eventID + "/analysis?persona=referee"
	if err := client.getJSON(ctx, url, &a); err != nil {
		return fmt.Errorf("analysis fetch failed: %w", err)
	}
	stats.AnalysisChecks++

	if a.EventID != eventID {
		return fmt.Errorf("analysis is for event %q, wanted %q", a.EventID, eventID)
	}

	// The flag must reflect whether any generated tag names the referee
	// persona, either exactly or by containment.
	expectExact := false
	for _, s := range game.Surfaces {
		if s.EventID == eventID && strings.Contains(strings.ToLower(s.PersonaTag), "referee") {
			expectExact = true
			break
		}
	}
	if a.Exact != expectExact {
		return fmt.Errorf("analysis exactness for %q is %v, wanted %v", eventID, a.Exact, expectExact)
	}
	return nil
}

// jobRow mirrors one row of the service's jobs response.
type jobRow struct {
	ID       string `json:"id"`
	GameID   string `json:"game_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Stage    string `json:"stage"`
}

// Status to progress mapping the service is expected to derive. The
// upstream payload carries no progress at all.
var expectedProgress = map[string]int{
	"queued":              0,
	"downloading":         20,
	"uploading":           30,
	"processing":          50,
	"processing_skilldna": 70,
	"generating_clips":    85,
	"completed":           100,
	"failed":              0,
}

// verifyJobs cross-checks the jobs endpoint against the generated slate.
func verifyJobs(ctx context.Context, client *HTTPClient, config *Config, games []Game, stats *Stats) error {
	log.Println("🔍 Verifying ingestion jobs...")

	var rows []jobRow
	if err := client.getJSON(ctx, config.BaseURL+"/jobs", &rows); err != nil {
		return fmt.Errorf("jobs fetch failed: %w", err)
	}

	byID := make(map[string]jobRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	for _, game := range games {
		row, ok := byID[game.Job.ID]
		if !ok {
			return fmt.Errorf("job %s missing from jobs endpoint", game.Job.ID)
		}
		if row.Status != game.Job.Status {
			return fmt.Errorf("job %s status is %q, generated %q", row.ID, row.Status, game.Job.Status)
		}
		if want, known := expectedProgress[game.Job.Status]; known && row.Progress != want {
			return fmt.Errorf("job %s progress is %d, wanted %d for status %q",
				row.ID, row.Progress, want, game.Job.Status)
		}
	}

	log.Println("✅ Ingestion jobs verified")
	return nil
}

// anchoredClips maps each event id to its winning clip: the first
// generated clip anchored to it.
func anchoredClips(markers []Marker) map[string]string {
	out := make(map[string]string)
	for _, m := range markers {
		if m.Kind != "clip" || m.EventAnchorID == "" {
			continue
		}
		if _, taken := out[m.EventAnchorID]; !taken {
			out[m.EventAnchorID] = m.ID
		}
	}
	return out
}

// firstClippedEvent returns the id of the first event carrying a clip.
func firstClippedEvent(markers []Marker) string {
	for _, m := range markers {
		if m.Kind == "event" && m.HasClip {
			return m.ID
		}
	}
	return ""
}

// sampleEntries picks a small representative sample: the first clipped
// entry, the first bare entry, and the last entry.
func sampleEntries(timeline []TimelineEntry) []TimelineEntry {
	if len(timeline) == 0 {
		return nil
	}

	var sample []TimelineEntry
	seen := make(map[string]bool)

	add := func(e TimelineEntry) {
		if !seen[e.ID] {
			seen[e.ID] = true
			sample = append(sample, e)
		}
	}

	for _, entry := range timeline {
		if entry.HasClip {
			add(entry)
			break
		}
	}
	for _, entry := range timeline {
		if !entry.HasClip {
			add(entry)
			break
		}
	}
	add(timeline[len(timeline)-1])

	return sample
}

// dominantFoulType returns the most common foul type in the timeline and
// how many entries carry it.
func dominantFoulType(timeline []TimelineEntry) (string, int) {
	counts := make(map[string]int)
	for _, entry := range timeline {
		if entry.FoulType != "" {
			counts[entry.FoulType]++
		}
	}

	best, bestCount := "", 0
	for ft, n := range counts {
		if n > bestCount {
			best, bestCount = ft, n
		}
	}
	return best, bestCount
}
