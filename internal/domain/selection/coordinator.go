// Package selection owns the cross-cutting dashboard selection state.
//
// The dashboard historically kept current game, current timeline selection,
// and current clip in three separately-mutable stores; the stale clip/event
// pairings that caused are the reason this package models them as one state
// object whose transitions run under a single lock.
package selection

import (
	"context"
	"sync"

	"github.com/refsight/refsight/internal/domain/correlate"
	"github.com/refsight/refsight/internal/domain/model"
)

// State is a snapshot of the current selection. Empty strings mean "nothing
// selected" on that axis.
type State struct {
	GameID         string
	SelectedEvent  string
	SelectedClip   string
	HoveredEvent   string
	ManualClipMode bool // clip was chosen directly, not via event correlation
}

// MarkerProvider supplies the marker set the coordinator correlates
// against. Implementations must be cheap and non-blocking; the coordinator
// calls them while holding its transition lock.
type MarkerProvider interface {
	Markers(ctx context.Context, gameID string) ([]model.Marker, error)
}

// Option applies a configuration option to the Coordinator.
type Option func(*Coordinator)

// WithInitialGame seeds the coordinator with a game id.
func WithInitialGame(gameID string) Option {
	return func(c *Coordinator) {
		c.state.GameID = gameID
	}
}

// Coordinator serializes selection transitions. Every transition mutates the
// state and returns the resulting snapshot atomically; two concurrent
// SelectEvent calls can never interleave their clip resolutions.
type Coordinator struct {
	mu      sync.Mutex
	state   State
	markers MarkerProvider
}

// New creates a Coordinator reading markers from the given provider.
func New(markers MarkerProvider, opts ...Option) *Coordinator {
	c := &Coordinator{markers: markers}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectGame switches the active game and resets every other selection
// axis. Selections never survive a game change.
func (c *Coordinator) SelectGame(ctx context.Context, gameID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{GameID: gameID}
	return c.state
}

// SelectEvent selects an event and resolves its clip inside the same
// transition. The snapshot returned (and any later read) can therefore
// never pair the new event with a previous event's clip.
func (c *Coordinator) SelectEvent(ctx context.Context, eventID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SelectedEvent = eventID
	c.state.SelectedClip = ""
	c.state.ManualClipMode = false
	if eventID == "" {
		return c.state
	}

	markers, err := c.markers.Markers(ctx, c.state.GameID)
	if err == nil {
		c.state.SelectedClip = correlate.ResolveClip(markers, eventID)
	}
	return c.state
}

// SelectClip selects a clip directly, independent of any event (manual clip
// browsing). The event selection is left alone.
func (c *Coordinator) SelectClip(ctx context.Context, clipID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SelectedClip = clipID
	c.state.ManualClipMode = clipID != ""
	return c.state
}

// Hover records the hovered event. Purely presentational: it never touches
// selection or clip resolution.
func (c *Coordinator) Hover(ctx context.Context, eventID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.HoveredEvent = eventID
	return c.state
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}
