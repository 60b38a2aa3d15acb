package simgames

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/refsight/refsight/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	eventTypeDivisor   = 20
	confidenceDivisor  = 8
)

// Constants for confidence generation ranges.
const (
	solidDetectionMin    = 0.80
	solidDetectionRange  = 0.15
	strongDetectionMin   = 0.90
	strongDetectionRange = 0.09
	weakDetectionMin     = 0.40
	weakDetectionRange   = 0.30
	borderlineMin        = 0.65
	borderlineRange      = 0.15
)

// Constants for confidence cases.
const (
	caseSolidDetection   = 0
	caseStrongDetection  = 1
	caseWeakDetection    = 2
	caseBorderline       = 3
	caseNoConfidence     = 4
	caseSolidDetection2  = 5
	caseSolidDetection3  = 6
	caseStrongDetection2 = 7
)

// Match timing constants.
const (
	matchDurationSeconds = 5400.0
	framesPerSecond      = 30
	clipLeadSeconds      = 4.0
	clipTailSeconds      = 6.0
)

// Out of 20: fouls dominate, goals and penalties are rare.
const (
	foulWeightCeiling    = 10
	offsideWeightCeiling = 13
	reviewWeightCeiling  = 17
	goalWeightCeiling    = 19
)

// Roughly how often an event gets a clip, out of 10.
const (
	clipChanceCeiling      = 4
	duplicateAnchorCeiling = 1
	clipChanceDivisor      = 10
)

var foulTypes = []string{"tackle", "handball", "holding", "tripping", "dangerous_play"}

var calls = []string{"correct", "incorrect", "missed", "soft"}

var severities = []string{"low", "medium", "high"}

// Persona tags deliberately mix registers: exact tags, display names
// that only contain the persona word, and cased variants. The resolver
// has to cope with all of them.
var personaTags = []string{"referee", "Referee", "Head Coach", "player", "league_ops"}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	return float64(getRandomInt(randomFloatDivisor)) / float64(randomFloatDivisor)
}

// generateGames creates the configured number of games with full payloads.
func generateGames(ctx context.Context, config *Config, stats *Stats) ([]Game, error) {
	logger.Get().Info(ctx, "generating games",
		logger.Int("numGames", config.NumGames),
		logger.Int("eventsPerGame", config.EventsPerGame))

	games := make([]Game, config.NumGames)
	for i := range games {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		games[i] = generateSingleGame(i, config.EventsPerGame)
		stats.MarkersGenerated += len(games[i].Markers)
	}

	stats.GamesGenerated = len(games)
	logger.Get().Info(ctx, "generated games successfully",
		logger.Int("games", stats.GamesGenerated),
		logger.Int("markers", stats.MarkersGenerated))
	return games, nil
}

// generateSingleGame builds one game: ordered event markers, clips
// anchored to a subset of them, persona surfaces for clipped events, and
// one ingestion job row.
func generateSingleGame(index, numEvents int) Game {
	gameID := "game_" + strconv.Itoa(index) + "_" + uuid.New().String()[:8]

	markers := make([]Marker, 0, numEvents*2)
	surfaces := make([]Surface, 0, numEvents)

	// Events are emitted in timestamp order, spread across the match.
	step := matchDurationSeconds / float64(numEvents+1)
	for i := 0; i < numEvents; i++ {
		ts := step * float64(i+1)
		event := generateEventMarker(gameID, i, ts)

		hasClip := getRandomInt(clipChanceDivisor) < clipChanceCeiling
		if hasClip {
			event.HasClip = true
			markers = append(markers, event)
			markers = append(markers, generateClipMarker(event, 0))

			// Occasionally a second clip claims the same anchor; only the
			// first one may ever win.
			if getRandomInt(clipChanceDivisor) < duplicateAnchorCeiling {
				markers = append(markers, generateClipMarker(event, 1))
			}

			surfaces = append(surfaces, generateSurfaces(event)...)
		} else {
			markers = append(markers, event)
		}
	}

	return Game{
		ID:       gameID,
		Markers:  markers,
		Surfaces: surfaces,
		Job:      generateJob(gameID),
	}
}

// generateEventMarker creates one event marker at the given timestamp.
func generateEventMarker(gameID string, index int, ts float64) Marker {
	eventType, meta := generateEventKind()
	return Marker{
		ID:          "e_" + gameID + "_" + strconv.Itoa(index),
		Kind:        "event",
		EventType:   eventType,
		Timestamp:   ts,
		FrameNumber: int(ts * framesPerSecond),
		Confidence:  generateConfidence(),
		Metadata:    meta,
	}
}

// generateEventKind picks an event type with a weighted distribution and
// builds the matching metadata object.
func generateEventKind() (string, map[string]string) {
	roll := getRandomInt(eventTypeDivisor)
	switch {
	case roll < foulWeightCeiling:
		return "foul", map[string]string{
			"foul_type": foulTypes[getRandomInt(int64(len(foulTypes)))],
			"call":      calls[getRandomInt(int64(len(calls)))],
			"team":      pickTeam(),
			"severity":  severities[getRandomInt(int64(len(severities)))],
		}
	case roll < offsideWeightCeiling:
		return "offside", map[string]string{"team": pickTeam()}
	case roll < reviewWeightCeiling:
		return "var_review", map[string]string{"call": calls[getRandomInt(int64(len(calls)))]}
	case roll < goalWeightCeiling:
		return "goal", map[string]string{"team": pickTeam()}
	default:
		return "penalty", map[string]string{
			"team":     pickTeam(),
			"call":     calls[getRandomInt(int64(len(calls)))],
			"severity": severities[getRandomInt(int64(len(severities)))],
		}
	}
}

func pickTeam() string {
	if getRandomInt(2) == 0 {
		return "home"
	}
	return "away"
}

// generateConfidence creates a detection confidence with varied
// distribution; some events carry none at all.
func generateConfidence() *float64 {
	var c float64
	switch getRandomInt(confidenceDivisor) {
	case caseSolidDetection, caseSolidDetection2, caseSolidDetection3:
		// Solid detections (0.80 - 0.95) - most common
		c = solidDetectionMin + getRandomFloat()*solidDetectionRange
	case caseStrongDetection, caseStrongDetection2:
		// Near-certain detections (0.90 - 0.99)
		c = strongDetectionMin + getRandomFloat()*strongDetectionRange
	case caseWeakDetection:
		// Weak detections (0.40 - 0.70)
		c = weakDetectionMin + getRandomFloat()*weakDetectionRange
	case caseBorderline:
		// Borderline detections (0.65 - 0.80)
		c = borderlineMin + getRandomFloat()*borderlineRange
	case caseNoConfidence:
		// No confidence reported - rare
		return nil
	default:
		c = solidDetectionMin + getRandomFloat()*solidDetectionRange
	}
	return &c
}

// generateClipMarker creates a clip anchored to the given event.
func generateClipMarker(event Marker, ordinal int) Marker {
	start := event.Timestamp - clipLeadSeconds
	if start < 0 {
		start = 0
	}
	end := event.Timestamp + clipTailSeconds
	return Marker{
		ID:            "c_" + event.ID + "_" + strconv.Itoa(ordinal),
		Kind:          "clip",
		ClipCategory:  event.EventType,
		StartTime:     start,
		EndTime:       end,
		Duration:      end - start,
		EventAnchorID: event.ID,
	}
}

// generateSurfaces creates one to three persona surfaces for an event.
func generateSurfaces(event Marker) []Surface {
	count := 1 + getRandomInt(3)
	offset := getRandomInt(int64(len(personaTags)))

	out := make([]Surface, 0, count)
	for i := int64(0); i < count; i++ {
		tag := personaTags[(offset+i)%int64(len(personaTags))]
		out = append(out, Surface{
			ID:         "s_" + event.ID + "_" + strconv.FormatInt(i, 10),
			EventID:    event.ID,
			PersonaTag: tag,
			Scores: map[string]float64{
				"decision_quality": getRandomFloat(),
				"positioning":      getRandomFloat(),
			},
			Interpretation: tag + " view of " + event.EventType,
		})
	}
	return out
}

// generateJob creates the ingestion job row for a game, biased toward
// completed so most generated games are immediately reviewable.
func generateJob(gameID string) IngestedJob {
	statuses := []string{
		"completed", "completed", "completed", "completed",
		"processing", "processing_skilldna", "generating_clips",
		"queued", "downloading", "uploading", "failed",
	}
	return IngestedJob{
		ID:     "job_" + gameID,
		GameID: gameID,
		Status: statuses[getRandomInt(int64(len(statuses)))],
	}
}
