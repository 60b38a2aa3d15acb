package timeline

import (
	"github.com/refsight/refsight/internal/domain/model"
)

// Filter returns the event markers that satisfy every constrained axis of
// the criteria, preserving input order. Clip markers never appear in the
// result; they stay in the full marker set for correlation. Malformed
// markers (negative timestamp, empty variant) are excluded rather than
// reported as errors.
func Filter(markers []model.Marker, c Criteria) []model.Marker {
	out := make([]model.Marker, 0, len(markers))
	for _, m := range markers {
		if m.Kind != model.KindEvent || !m.Valid() {
			continue
		}
		if matches(m.Event, &c) {
			out = append(out, m)
		}
	}
	return out
}

// matches evaluates the AND of all active axes for a single event.
func matches(e *model.EventMarker, c *Criteria) bool {
	if len(c.EventTypes) > 0 {
		if _, ok := c.EventTypes[e.EventType]; !ok {
			return false
		}
	}
	if len(c.FoulTypes) > 0 {
		// An event without a foul type cannot satisfy an active foul-type
		// constraint.
		if e.Detail.FoulType == "" {
			return false
		}
		if _, ok := c.FoulTypes[e.Detail.FoulType]; !ok {
			return false
		}
	}
	if tr := c.TimeRange; tr != nil {
		if e.Timestamp < tr.Min || e.Timestamp > tr.Max {
			return false
		}
	}
	if mc := c.MinConfidence; mc != nil {
		// Absence of a confidence value is not failure.
		if e.Confidence != nil && *e.Confidence < *mc {
			return false
		}
	}
	return true
}
