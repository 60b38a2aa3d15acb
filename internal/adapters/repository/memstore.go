package repository

import (
	"context"
	"sync"
	"time"

	"github.com/refsight/refsight/internal/domain/model"
	"github.com/refsight/refsight/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxGames    = 32
	defaultMaxSurfaces = 1024
)

// gameEntry is one game's committed marker set plus bookkeeping for
// eviction.
type gameEntry struct {
	markers []model.Marker
	touched time.Time
	byID    map[string]struct{}
}

// MemStore implements Store with mutex-guarded in-memory maps. Marker sets
// are bounded by game count with least-recently-touched eviction; surface
// caches are bounded by event count.
type MemStore struct {
	mu sync.RWMutex

	games    map[string]*gameEntry
	surfaces map[string][]model.AnalysisSurface
	jobs     []model.IngestionJob

	maxGames    int
	maxSurfaces int
}

// NewMemStore creates a new in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		games:       make(map[string]*gameEntry),
		surfaces:    make(map[string][]model.AnalysisSurface),
		maxGames:    defaultMaxGames,
		maxSurfaces: defaultMaxSurfaces,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReplaceMarkers swaps in the marker set for a game. Duplicate ids are
// dropped, first occurrence wins, so the per-game uniqueness invariant
// holds no matter what upstream sends.
func (s *MemStore) ReplaceMarkers(ctx context.Context, gameID string, markers []model.Marker) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	entry := &gameEntry{
		markers: make([]model.Marker, 0, len(markers)),
		byID:    make(map[string]struct{}, len(markers)),
		touched: time.Now(),
	}
	for _, m := range markers {
		id := m.ID()
		if id == "" {
			continue
		}
		if _, dup := entry.byID[id]; dup {
			continue
		}
		entry.byID[id] = struct{}{}
		entry.markers = append(entry.markers, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[gameID]; !exists && len(s.games) >= s.maxGames {
		s.evictOldestLocked()
	}
	s.games[gameID] = entry

	metrics.UpdateGamesTracked(len(s.games))
	metrics.UpdateMarkersTracked(s.markerCountLocked())
	return len(entry.markers), nil
}

// Markers returns the committed marker set for a game.
func (s *MemStore) Markers(ctx context.Context, gameID string) ([]model.Marker, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	entry, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}

	s.mu.Lock()
	entry.touched = time.Now()
	s.mu.Unlock()

	// Copy so callers can never observe a later ReplaceMarkers.
	out := make([]model.Marker, len(entry.markers))
	copy(out, entry.markers)
	return out, nil
}

// ReplaceSurfaces swaps in the surfaces for an event.
func (s *MemStore) ReplaceSurfaces(ctx context.Context, eventID string, surfaces []model.AnalysisSurface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.surfaces[eventID]; !exists && len(s.surfaces) >= s.maxSurfaces {
		// Surface caches are tiny; dropping the whole cache on overflow is
		// simpler than tracking recency and only costs a refetch.
		s.surfaces = make(map[string][]model.AnalysisSurface)
	}
	cp := make([]model.AnalysisSurface, len(surfaces))
	copy(cp, surfaces)
	s.surfaces[eventID] = cp
}

// Surfaces returns the cached surfaces for an event.
func (s *MemStore) Surfaces(ctx context.Context, eventID string) ([]model.AnalysisSurface, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.surfaces[eventID]
	if !ok {
		return nil, false
	}
	out := make([]model.AnalysisSurface, len(cached))
	copy(out, cached)
	return out, true
}

// ReplaceJobs swaps in the latest ingestion job snapshot.
func (s *MemStore) ReplaceJobs(ctx context.Context, jobs []model.IngestionJob) {
	cp := make([]model.IngestionJob, len(jobs))
	copy(cp, jobs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = cp
}

// Jobs returns the latest ingestion job snapshot.
func (s *MemStore) Jobs(ctx context.Context) []model.IngestionJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.IngestionJob, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// GameCount returns the number of games with a committed marker set.
func (s *MemStore) GameCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// MarkerCount returns the total number of markers across all games.
func (s *MemStore) MarkerCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markerCountLocked()
}

func (s *MemStore) markerCountLocked() int {
	total := 0
	for _, entry := range s.games {
		total += len(entry.markers)
	}
	return total
}

// evictOldestLocked removes the least-recently-touched game. Caller holds
// the write lock.
func (s *MemStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.games {
		if oldestID == "" || entry.touched.Before(oldest) {
			oldestID = id
			oldest = entry.touched
		}
	}
	if oldestID != "" {
		delete(s.games, oldestID)
	}
}
