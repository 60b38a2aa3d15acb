// Package model contains domain models passed between layers.
package model

// MarkerKind discriminates the two timeline marker variants.
type MarkerKind string

// Marker kinds.
const (
	KindEvent MarkerKind = "event"
	KindClip  MarkerKind = "clip"
)

// EventType classifies a detected officiating event.
type EventType string

// Event types produced by the detection pipeline. The set is open; unknown
// values pass through untouched.
const (
	EventFoul      EventType = "foul"
	EventGoal      EventType = "goal"
	EventOffside   EventType = "offside"
	EventPenalty   EventType = "penalty"
	EventVARReview EventType = "var_review"
)

// EventDetail is the closed, typed payload attached to an event marker.
// Upstream sends a loose metadata object; the source adapter decodes the
// known keys into this struct at the ingestion boundary and drops the rest.
type EventDetail struct {
	FoulType string // e.g. "holding", "tripping"; empty when not a foul
	Call     string // the official's recorded call, if any
	Team     string
	Severity string
}

// EventMarker is a detected officiating event on the game timeline.
type EventMarker struct {
	ID          string
	EventType   EventType
	Timestamp   float64 // seconds from kickoff; negative means malformed
	FrameNumber int     // 0 when the detector did not report a frame
	Confidence  *float64
	HasClip     bool
	Detail      EventDetail
}

// ClipMarker is a generated video clip anchored to an event.
type ClipMarker struct {
	ID            string
	Category      string
	Start         float64
	End           float64
	Duration      float64
	EventAnchorID string // empty when the clip was cut manually
}

// Marker is the tagged union of the two timeline entry variants. Exactly one
// of Event or Clip is non-nil, matching Kind.
type Marker struct {
	Kind  MarkerKind
	Event *EventMarker
	Clip  *ClipMarker
}

// NewEventMarker wraps an event marker in the union.
func NewEventMarker(e EventMarker) Marker {
	return Marker{Kind: KindEvent, Event: &e}
}

// NewClipMarker wraps a clip marker in the union.
func NewClipMarker(c ClipMarker) Marker {
	return Marker{Kind: KindClip, Clip: &c}
}

// ID returns the marker id regardless of variant.
func (m Marker) ID() string {
	switch m.Kind {
	case KindEvent:
		if m.Event != nil {
			return m.Event.ID
		}
	case KindClip:
		if m.Clip != nil {
			return m.Clip.ID
		}
	}
	return ""
}

// Timestamp returns the temporal position shared by both variants: the event
// timestamp, or the clip start time.
func (m Marker) Timestamp() float64 {
	switch m.Kind {
	case KindEvent:
		if m.Event != nil {
			return m.Event.Timestamp
		}
	case KindClip:
		if m.Clip != nil {
			return m.Clip.Start
		}
	}
	return 0
}

// Valid reports whether the marker satisfies the structural invariants:
// a populated variant matching Kind, non-negative timestamps, and
// start <= end for clips.
func (m Marker) Valid() bool {
	switch m.Kind {
	case KindEvent:
		return m.Event != nil && m.Event.Timestamp >= 0
	case KindClip:
		return m.Clip != nil && m.Clip.Start >= 0 && m.Clip.Start <= m.Clip.End
	default:
		return false
	}
}
