// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	fetchqueue "github.com/refsight/refsight/internal/adapters/mq/queue"
	workerpool "github.com/refsight/refsight/internal/adapters/mq/worker"
	repository "github.com/refsight/refsight/internal/adapters/repository"
	"github.com/refsight/refsight/internal/adapters/source"
	"github.com/refsight/refsight/internal/domain/model"
	"github.com/refsight/refsight/internal/domain/persona"
	"github.com/refsight/refsight/internal/domain/selection"
	"github.com/refsight/refsight/internal/domain/timeline"
	"github.com/refsight/refsight/internal/domain/types"
	"github.com/refsight/refsight/pkg/logger"
	"github.com/refsight/refsight/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize        = 1024
	defaultWorkerCount      = 4
	defaultMaxTimelineLimit = 500
	defaultJobPollInterval  = 5 * time.Second
	defaultFetchTimeout     = 10 * time.Second
)

// Service implements the API dependencies for the review dashboard.
//
// It owns the per-session review state: the active game and its fetch tag,
// the filter criteria, the selection coordinator, and the store the fetch
// pipeline commits into.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	fetchQueue  fetchqueue.Queue
	workerPool  *workerpool.Pool
	coordinator *selection.Coordinator

	// Upstream sources
	markers  source.MarkerSource
	surfaces source.SurfaceSource
	jobs     source.JobSource

	// Session state guarded by mu. currentTag identifies the newest game
	// selection; fetch results carrying any other tag are discarded.
	currentGame string
	currentTag  string
	criteria    timeline.Criteria

	// Configuration
	upstreamBaseURL  string
	fetchTimeout     time.Duration
	queueSize        int
	workerCount      int
	maxTimelineLimit int
	jobPollInterval  time.Duration
	defaultPersona   model.PersonaTag
	maxGames         int
	maxSurfaceEvents int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstreamBaseURL sets the analysis backend base URL.
func WithUpstreamBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.upstreamBaseURL = baseURL
		}
	}
}

// WithFetchTimeout bounds a single upstream round trip.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithQueueSize sets the maximum size of the fetch request queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of fetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxTimelineLimit caps how many entries a timeline read returns.
func WithMaxTimelineLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxTimelineLimit = limit
		}
	}
}

// WithJobPollInterval sets how often ingestion job status is refreshed.
func WithJobPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.jobPollInterval = d
		}
	}
}

// WithDefaultPersona sets the persona used when a request names none.
func WithDefaultPersona(p string) Option {
	return func(s *Service) {
		if p != "" {
			s.defaultPersona = model.PersonaTag(p)
		}
	}
}

// WithStoreBounds sets the store eviction bounds.
func WithStoreBounds(maxGames, maxSurfaceEvents int) Option {
	return func(s *Service) {
		if maxGames > 0 {
			s.maxGames = maxGames
		}
		if maxSurfaceEvents > 0 {
			s.maxSurfaceEvents = maxSurfaceEvents
		}
	}
}

// WithSources overrides the upstream sources. Any nil argument keeps the
// default HTTP client for that source.
func WithSources(m source.MarkerSource, sf source.SurfaceSource, j source.JobSource) Option {
	return func(s *Service) {
		if m != nil {
			s.markers = m
		}
		if sf != nil {
			s.surfaces = sf
		}
		if j != nil {
			s.jobs = j
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		upstreamBaseURL:  "http://localhost:9000",
		fetchTimeout:     defaultFetchTimeout,
		queueSize:        defaultQueueSize,
		workerCount:      defaultWorkerCount,
		maxTimelineLimit: defaultMaxTimelineLimit,
		jobPollInterval:  defaultJobPollInterval,
		defaultPersona:   model.PersonaReferee,
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting review service...")

	var storeOpts []repository.Option
	if s.maxGames > 0 {
		storeOpts = append(storeOpts, repository.WithMaxGames(s.maxGames))
	}
	if s.maxSurfaceEvents > 0 {
		storeOpts = append(storeOpts, repository.WithMaxSurfaceEvents(s.maxSurfaceEvents))
	}
	s.store = repository.NewMemStore(storeOpts...)

	s.fetchQueue = fetchqueue.NewInMemoryQueue(
		fetchqueue.WithCapacity(s.queueSize),
		fetchqueue.WithBufferSize(s.queueSize),
	)

	if s.markers == nil || s.surfaces == nil || s.jobs == nil {
		client := source.NewClient(s.upstreamBaseURL, source.WithTimeout(s.fetchTimeout))
		if s.markers == nil {
			s.markers = client
		}
		if s.surfaces == nil {
			s.surfaces = client
		}
		if s.jobs == nil {
			s.jobs = client
		}
	}

	s.coordinator = selection.New(s)

	s.workerPool = workerpool.NewPool(s.workerCount, s.fetchQueue, s.markers, s)
	s.workerPool.Start(ctx)

	go s.pollJobs(ctx)

	s.started = true
	s.logger.Info(ctx, "review service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("upstream", s.upstreamBaseURL),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping review service...")

	// Signal the job poller to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	if q, ok := s.fetchQueue.(*fetchqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "review service stopped")
}

// Markers supplies the committed marker set for a game. Implements the
// selection coordinator's provider; a game with no committed set yet reads
// as empty rather than an error.
func (s *Service) Markers(ctx context.Context, gameID string) ([]model.Marker, error) {
	markers, err := s.store.Markers(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil
	}
	return markers, err
}

// CommitMarkers applies a fetched marker set if its tag still matches the
// current game selection. Implements the fetch worker's committer.
func (s *Service) CommitMarkers(ctx context.Context, req fetchqueue.FetchRequest, markers []model.Marker) bool {
	s.mu.RLock()
	current := s.currentTag
	s.mu.RUnlock()

	if req.Tag != current {
		return false
	}

	if _, err := s.store.ReplaceMarkers(ctx, req.GameID, markers); err != nil {
		s.logger.Error(ctx, "marker commit failed",
			logger.String("gameID", req.GameID),
			logger.Error(err),
		)
		return true // not stale; the fetch was current but storage failed
	}
	return true
}

// SelectGame switches the session to a new game. The selection resets
// synchronously; the marker fetch runs asynchronously under a fresh tag so
// a slow fetch for a previous game can never overwrite this one.
func (s *Service) SelectGame(ctx context.Context, gameID string) types.SelectionView {
	tag := uuid.NewString()

	s.mu.Lock()
	s.currentGame = gameID
	s.currentTag = tag
	s.criteria.Reset()
	s.mu.Unlock()

	state := s.coordinator.SelectGame(ctx, gameID)
	metrics.RecordSelectionTransition("game")

	if gameID != "" {
		if ok := s.fetchQueue.Enqueue(ctx, fetchqueue.FetchRequest{GameID: gameID, Tag: tag}); !ok {
			s.logger.Warn(ctx, "fetch queue rejected request",
				logger.String("gameID", gameID),
			)
		}
	}

	return viewOf(state)
}

// SelectEvent selects an event; its clip is resolved within the same
// transition.
func (s *Service) SelectEvent(ctx context.Context, eventID string) types.SelectionView {
	state := s.coordinator.SelectEvent(ctx, eventID)
	metrics.RecordSelectionTransition("event")
	if eventID != "" {
		if state.SelectedClip != "" {
			metrics.RecordClipResolution()
		} else {
			metrics.RecordClipMiss()
		}
	}
	return viewOf(state)
}

// SelectClip selects a clip directly for manual clip browsing.
func (s *Service) SelectClip(ctx context.Context, clipID string) types.SelectionView {
	state := s.coordinator.SelectClip(ctx, clipID)
	metrics.RecordSelectionTransition("clip")
	return viewOf(state)
}

// Hover records the hovered event.
func (s *Service) Hover(ctx context.Context, eventID string) types.SelectionView {
	state := s.coordinator.Hover(ctx, eventID)
	metrics.RecordSelectionTransition("hover")
	return viewOf(state)
}

// Selection returns the current selection snapshot.
func (s *Service) Selection(ctx context.Context) types.SelectionView {
	return viewOf(s.coordinator.Snapshot())
}

func viewOf(st selection.State) types.SelectionView {
	return types.SelectionView{
		GameID:        st.GameID,
		SelectedEvent: st.SelectedEvent,
		SelectedClip:  st.SelectedClip,
		HoveredEvent:  st.HoveredEvent,
		ManualClip:    st.ManualClipMode,
	}
}

// Timeline returns the current game's event markers with the active filter
// criteria applied. A session with no game selected, or a game whose fetch
// has not landed yet, reads as an empty timeline.
func (s *Service) Timeline(ctx context.Context, limit int) ([]types.TimelineEntry, error) {
	s.mu.RLock()
	gameID := s.currentGame
	criteria := s.criteria.Clone()
	s.mu.RUnlock()

	if gameID == "" {
		return []types.TimelineEntry{}, nil
	}

	markers, err := s.store.Markers(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return []types.TimelineEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > s.maxTimelineLimit {
		limit = s.maxTimelineLimit
	}

	filtered := timeline.Filter(markers, criteria)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	entries := make([]types.TimelineEntry, 0, len(filtered))
	for _, m := range filtered {
		if entry, ok := types.FromEventMarker(m); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ToggleEventType flips an event type filter and returns the resulting
// criteria.
func (s *Service) ToggleEventType(ctx context.Context, eventType string) types.FilterView {
	s.mu.Lock()
	s.criteria.ToggleEventType(model.EventType(eventType))
	view := filterViewOf(&s.criteria)
	s.mu.Unlock()
	return view
}

// ToggleFoulType flips a foul type filter and returns the resulting
// criteria.
func (s *Service) ToggleFoulType(ctx context.Context, foulType string) types.FilterView {
	s.mu.Lock()
	s.criteria.ToggleFoulType(foulType)
	view := filterViewOf(&s.criteria)
	s.mu.Unlock()
	return view
}

// SetTimeRange constrains the timeline's timestamp axis.
func (s *Service) SetTimeRange(ctx context.Context, min, max float64) types.FilterView {
	s.mu.Lock()
	s.criteria.SetTimeRange(min, max)
	view := filterViewOf(&s.criteria)
	s.mu.Unlock()
	return view
}

// SetMinConfidence constrains the timeline's confidence axis.
func (s *Service) SetMinConfidence(ctx context.Context, min float64) types.FilterView {
	s.mu.Lock()
	s.criteria.SetMinConfidence(min)
	view := filterViewOf(&s.criteria)
	s.mu.Unlock()
	return view
}

// ClearFilters drops every filter axis at once.
func (s *Service) ClearFilters(ctx context.Context) types.FilterView {
	s.mu.Lock()
	s.criteria.Reset()
	view := filterViewOf(&s.criteria)
	s.mu.Unlock()
	return view
}

// Filters returns the active filter criteria.
func (s *Service) Filters(ctx context.Context) types.FilterView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterViewOf(&s.criteria)
}

func filterViewOf(c *timeline.Criteria) types.FilterView {
	var view types.FilterView
	for t := range c.EventTypes {
		view.EventTypes = append(view.EventTypes, string(t))
	}
	sort.Strings(view.EventTypes)
	for ft := range c.FoulTypes {
		view.FoulTypes = append(view.FoulTypes, ft)
	}
	sort.Strings(view.FoulTypes)
	if c.TimeRange != nil {
		min, max := c.TimeRange.Min, c.TimeRange.Max
		view.TimeMin = &min
		view.TimeMax = &max
	}
	if c.MinConfidence != nil {
		mc := *c.MinConfidence
		view.MinConfidence = &mc
	}
	return view
}

// Analysis resolves the analysis surface for an event and persona. Surfaces
// are fetched on first access and cached; resolution prefers an exact
// persona match, then containment, then the first surface with the view
// flagged inexact.
func (s *Service) Analysis(ctx context.Context, eventID, personaName string) (types.SurfaceView, error) {
	tag := s.defaultPersona
	if personaName != "" {
		tag = model.PersonaTag(personaName)
	}

	surfaces, fetched := s.store.Surfaces(ctx, eventID)
	if !fetched {
		var err error
		surfaces, err = s.surfaces.FetchSurfaces(ctx, eventID)
		if err != nil {
			metrics.RecordErrorByComponent("service", "surface_fetch_error")
			return types.SurfaceView{}, err
		}
		s.store.ReplaceSurfaces(ctx, eventID, surfaces)
	}

	match := persona.Resolve(surfaces, tag)
	if match.Surface == nil {
		return types.SurfaceView{}, ErrNoAnalysis
	}
	if !match.Exact {
		metrics.RecordPersonaFallback()
	}

	return types.SurfaceView{
		ID:             match.Surface.ID,
		EventID:        match.Surface.EventID,
		Persona:        match.Surface.Persona,
		Scores:         match.Surface.Scores,
		Interpretation: match.Surface.Interpretation,
		Exact:          match.Exact,
	}, nil
}

// Jobs returns the latest ingestion job snapshot with locally derived
// progress and stage labels.
func (s *Service) Jobs(ctx context.Context) []types.JobView {
	jobs := s.store.Jobs(ctx)
	views := make([]types.JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, types.FromJob(j))
	}
	return views
}

// RefreshJobs fetches the current job statuses from upstream and replaces
// the local snapshot.
func (s *Service) RefreshJobs(ctx context.Context) error {
	metrics.RecordJobPoll()
	jobs, err := s.jobs.FetchJobs(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "job_poll_error")
		return err
	}
	s.store.ReplaceJobs(ctx, jobs)
	metrics.UpdateJobsTracked(len(jobs))
	return nil
}

// pollJobs refreshes ingestion job status until the service stops.
func (s *Service) pollJobs(ctx context.Context) {
	ticker := time.NewTicker(s.jobPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.RefreshJobs(ctx); err != nil {
				s.logger.Warn(ctx, "job status refresh failed", logger.Error(err))
			}
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"currentGame": s.currentGame,
	}

	if s.started {
		queueLen := s.fetchQueue.Len(ctx)
		games := s.store.GameCount(ctx)
		markers := s.store.MarkerCount(ctx)

		stats["queueLength"] = queueLen
		stats["gamesTracked"] = games
		stats["markersTracked"] = markers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateGamesTracked(games)
		metrics.UpdateMarkersTracked(markers)
	}

	return stats
}
