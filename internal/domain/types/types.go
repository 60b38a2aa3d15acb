// Package types contains the read shapes shared between the service layer
// and the HTTP API.
package types

import (
	"github.com/refsight/refsight/internal/domain/ingest"
	"github.com/refsight/refsight/internal/domain/model"
)

// TimelineEntry is the wire shape of one filtered event marker.
type TimelineEntry struct {
	ID          string   `json:"id"`
	EventType   string   `json:"event_type"`
	Timestamp   float64  `json:"timestamp"`
	FrameNumber int      `json:"frame_number,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	HasClip     bool     `json:"has_clip"`
	FoulType    string   `json:"foul_type,omitempty"`
	Call        string   `json:"call,omitempty"`
	Team        string   `json:"team,omitempty"`
}

// FromEventMarker converts an event marker into its wire shape. Non-event
// markers yield a zero entry and false.
func FromEventMarker(m model.Marker) (TimelineEntry, bool) {
	if m.Kind != model.KindEvent || m.Event == nil {
		return TimelineEntry{}, false
	}
	e := m.Event
	return TimelineEntry{
		ID:          e.ID,
		EventType:   string(e.EventType),
		Timestamp:   e.Timestamp,
		FrameNumber: e.FrameNumber,
		Confidence:  e.Confidence,
		HasClip:     e.HasClip,
		FoulType:    e.Detail.FoulType,
		Call:        e.Detail.Call,
		Team:        e.Detail.Team,
	}, true
}

// SelectionView is the wire shape of the selection snapshot.
type SelectionView struct {
	GameID        string `json:"game_id"`
	SelectedEvent string `json:"selected_event_id,omitempty"`
	SelectedClip  string `json:"selected_clip_id,omitempty"`
	HoveredEvent  string `json:"hovered_event_id,omitempty"`
	ManualClip    bool   `json:"manual_clip,omitempty"`
}

// JobView is an ingestion job with its locally derived progress and stage.
type JobView struct {
	ID       string `json:"id"`
	GameID   string `json:"game_id,omitempty"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Stage    string `json:"stage"`
}

// FromJob derives the display view for a job. Progress and stage always
// come from the local status table, never from upstream.
func FromJob(j model.IngestionJob) JobView {
	return JobView{
		ID:       j.ID,
		GameID:   j.GameID,
		Status:   string(j.Status),
		Progress: ingest.Progress(j.Status),
		Stage:    ingest.Stage(j.Status),
	}
}

// FilterView is the wire shape of the active filter configuration. Slices
// are sorted so repeated reads of the same criteria compare equal.
type FilterView struct {
	EventTypes    []string `json:"event_types,omitempty"`
	FoulTypes     []string `json:"foul_types,omitempty"`
	TimeMin       *float64 `json:"time_min,omitempty"`
	TimeMax       *float64 `json:"time_max,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
}

// SurfaceView is a resolved analysis surface plus match exactness, so the
// dashboard can warn when another persona's analysis was substituted.
type SurfaceView struct {
	ID             string             `json:"id"`
	EventID        string             `json:"event_id"`
	Persona        string             `json:"persona"`
	Scores         map[string]float64 `json:"scores,omitempty"`
	Interpretation string             `json:"interpretation,omitempty"`
	Exact          bool               `json:"exact"`
}
