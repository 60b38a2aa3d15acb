// Package timeline implements predicate evaluation over a game's marker set.
package timeline

import (
	"github.com/refsight/refsight/internal/domain/model"
)

// TimeRange bounds the timestamp axis, inclusive on both ends.
type TimeRange struct {
	Min float64
	Max float64
}

// Criteria is the active filter configuration. A nil set or pointer means
// "no constraint on that axis"; populated axes combine with logical AND.
type Criteria struct {
	EventTypes    map[model.EventType]struct{}
	FoulTypes     map[string]struct{}
	TimeRange     *TimeRange
	MinConfidence *float64
}

// Empty reports whether no axis is constrained.
func (c *Criteria) Empty() bool {
	return len(c.EventTypes) == 0 &&
		len(c.FoulTypes) == 0 &&
		c.TimeRange == nil &&
		c.MinConfidence == nil
}

// Reset clears every axis.
func (c *Criteria) Reset() {
	c.EventTypes = nil
	c.FoulTypes = nil
	c.TimeRange = nil
	c.MinConfidence = nil
}

// ToggleEventType flips membership of t in the event-type set: a symmetric
// difference, not a replace. Removing the last member drops the constraint
// entirely.
func (c *Criteria) ToggleEventType(t model.EventType) {
	if c.EventTypes == nil {
		c.EventTypes = make(map[model.EventType]struct{})
	}
	if _, ok := c.EventTypes[t]; ok {
		delete(c.EventTypes, t)
		if len(c.EventTypes) == 0 {
			c.EventTypes = nil
		}
		return
	}
	c.EventTypes[t] = struct{}{}
}

// ToggleFoulType flips membership of ft in the foul-type set, with the same
// symmetric-difference semantics as ToggleEventType.
func (c *Criteria) ToggleFoulType(ft string) {
	if c.FoulTypes == nil {
		c.FoulTypes = make(map[string]struct{})
	}
	if _, ok := c.FoulTypes[ft]; ok {
		delete(c.FoulTypes, ft)
		if len(c.FoulTypes) == 0 {
			c.FoulTypes = nil
		}
		return
	}
	c.FoulTypes[ft] = struct{}{}
}

// SetTimeRange constrains the timestamp axis.
func (c *Criteria) SetTimeRange(min, max float64) {
	c.TimeRange = &TimeRange{Min: min, Max: max}
}

// ClearTimeRange drops the timestamp constraint.
func (c *Criteria) ClearTimeRange() {
	c.TimeRange = nil
}

// SetMinConfidence constrains the confidence axis. Values are expected in
// [0,1]; out-of-range input is clamped.
func (c *Criteria) SetMinConfidence(min float64) {
	if min < 0 {
		min = 0
	}
	if min > 1 {
		min = 1
	}
	c.MinConfidence = &min
}

// ClearMinConfidence drops the confidence constraint.
func (c *Criteria) ClearMinConfidence() {
	c.MinConfidence = nil
}

// Clone returns an independent copy so snapshots handed to readers cannot
// observe later toggles.
func (c *Criteria) Clone() Criteria {
	out := Criteria{}
	if len(c.EventTypes) > 0 {
		out.EventTypes = make(map[model.EventType]struct{}, len(c.EventTypes))
		for t := range c.EventTypes {
			out.EventTypes[t] = struct{}{}
		}
	}
	if len(c.FoulTypes) > 0 {
		out.FoulTypes = make(map[string]struct{}, len(c.FoulTypes))
		for ft := range c.FoulTypes {
			out.FoulTypes[ft] = struct{}{}
		}
	}
	if c.TimeRange != nil {
		tr := *c.TimeRange
		out.TimeRange = &tr
	}
	if c.MinConfidence != nil {
		mc := *c.MinConfidence
		out.MinConfidence = &mc
	}
	return out
}
