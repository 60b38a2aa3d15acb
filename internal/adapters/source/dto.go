package source

import (
	"fmt"

	"github.com/refsight/refsight/internal/domain/model"
)

// Wire shapes mirror the upstream JSON. The loose metadata object is
// narrowed into the typed model.EventDetail here, at the ingestion
// boundary, so no map-shaped payloads travel further into the core.

type markerDTO struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`

	// Event fields.
	EventType   string         `json:"event_type,omitempty"`
	Timestamp   float64        `json:"timestamp,omitempty"`
	FrameNumber int            `json:"frame_number,omitempty"`
	Confidence  *float64       `json:"confidence,omitempty"`
	HasClip     bool           `json:"has_clip,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// Clip fields.
	ClipCategory  string  `json:"clip_category,omitempty"`
	StartTime     float64 `json:"start_time,omitempty"`
	EndTime       float64 `json:"end_time,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	EventAnchorID string  `json:"event_anchor_id,omitempty"`
}

type markersEnvelope struct {
	GameID  string      `json:"game_id"`
	Markers []markerDTO `json:"markers"`
}

type noteDTO struct {
	Aspect  string `json:"aspect"`
	Comment string `json:"comment"`
}

type surfaceDTO struct {
	ID             string             `json:"id"`
	EventID        string             `json:"event_id"`
	PersonaTag     string             `json:"persona_tag"`
	Scores         map[string]float64 `json:"scores,omitempty"`
	Interpretation string             `json:"interpretation,omitempty"`
	Notes          []noteDTO          `json:"notes,omitempty"`
}

type surfacesEnvelope struct {
	EventID  string       `json:"event_id"`
	Surfaces []surfaceDTO `json:"surfaces"`
}

type jobDTO struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
	Status string `json:"status"`
	// Upstream may send progress and stage; both are ignored by contract
	// and re-derived from Status locally.
	Progress int    `json:"progress,omitempty"`
	Stage    string `json:"stage,omitempty"`
}

type jobsEnvelope struct {
	Jobs []jobDTO `json:"jobs"`
}

// metaString pulls a string value out of the metadata object, tolerating
// absent keys and non-string values.
func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

// toModel converts a wire marker into the domain union.
func (d markerDTO) toModel() (model.Marker, error) {
	switch model.MarkerKind(d.Kind) {
	case model.KindEvent:
		return model.NewEventMarker(model.EventMarker{
			ID:          d.ID,
			EventType:   model.EventType(d.EventType),
			Timestamp:   d.Timestamp,
			FrameNumber: d.FrameNumber,
			Confidence:  d.Confidence,
			HasClip:     d.HasClip,
			Detail: model.EventDetail{
				FoulType: metaString(d.Metadata, "foul_type"),
				Call:     metaString(d.Metadata, "call"),
				Team:     metaString(d.Metadata, "team"),
				Severity: metaString(d.Metadata, "severity"),
			},
		}), nil
	case model.KindClip:
		duration := d.Duration
		if duration == 0 && d.EndTime > d.StartTime {
			duration = d.EndTime - d.StartTime
		}
		return model.NewClipMarker(model.ClipMarker{
			ID:            d.ID,
			Category:      d.ClipCategory,
			Start:         d.StartTime,
			End:           d.EndTime,
			Duration:      duration,
			EventAnchorID: d.EventAnchorID,
		}), nil
	default:
		return model.Marker{}, fmt.Errorf("%w: unknown marker kind %q", ErrDecode, d.Kind)
	}
}

// decodeMarkers converts a marker envelope, skipping entries with unknown
// kinds. A skipped entry is an upstream anomaly, not a fetch failure.
func decodeMarkers(env markersEnvelope) []model.Marker {
	out := make([]model.Marker, 0, len(env.Markers))
	for _, d := range env.Markers {
		m, err := d.toModel()
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func decodeSurfaces(env surfacesEnvelope) []model.AnalysisSurface {
	out := make([]model.AnalysisSurface, 0, len(env.Surfaces))
	for _, d := range env.Surfaces {
		notes := make([]model.AspectNote, 0, len(d.Notes))
		for _, n := range d.Notes {
			notes = append(notes, model.AspectNote{Aspect: n.Aspect, Comment: n.Comment})
		}
		eventID := d.EventID
		if eventID == "" {
			eventID = env.EventID
		}
		out = append(out, model.AnalysisSurface{
			ID:             d.ID,
			EventID:        eventID,
			Persona:        d.PersonaTag,
			Scores:         d.Scores,
			Interpretation: d.Interpretation,
			Notes:          notes,
		})
	}
	return out
}

func decodeJobs(env jobsEnvelope) []model.IngestionJob {
	out := make([]model.IngestionJob, 0, len(env.Jobs))
	for _, d := range env.Jobs {
		out = append(out, model.IngestionJob{
			ID:     d.ID,
			GameID: d.GameID,
			Status: model.JobStatus(d.Status),
		})
	}
	return out
}
