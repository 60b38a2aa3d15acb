// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/refsight/refsight/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Selection transitions. Each returns the resulting snapshot.
	SelectGame(ctx context.Context, gameID string) types.SelectionView
	SelectEvent(ctx context.Context, eventID string) types.SelectionView
	SelectClip(ctx context.Context, clipID string) types.SelectionView
	Hover(ctx context.Context, eventID string) types.SelectionView
	Selection(ctx context.Context) types.SelectionView

	// Timeline reads with the active filters applied.
	Timeline(ctx context.Context, limit int) ([]types.TimelineEntry, error)

	// Filter mutations. Each returns the resulting criteria.
	ToggleEventType(ctx context.Context, eventType string) types.FilterView
	ToggleFoulType(ctx context.Context, foulType string) types.FilterView
	SetTimeRange(ctx context.Context, min, max float64) types.FilterView
	SetMinConfidence(ctx context.Context, min float64) types.FilterView
	ClearFilters(ctx context.Context) types.FilterView
	Filters(ctx context.Context) types.FilterView

	// Analysis resolves the persona surface for an event.
	Analysis(ctx context.Context, eventID, persona string) (types.SurfaceView, error)

	// Jobs returns the latest ingestion job snapshot.
	Jobs(ctx context.Context) []types.JobView
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	gamesHandler     *GamesHandler
	timelineHandler  *TimelineHandler
	selectionHandler *SelectionHandler
	filtersHandler   *FiltersHandler
	analysisHandler  *AnalysisHandler
	jobsHandler      *JobsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTimelineLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		gamesHandler:     NewGamesHandler(deps),
		timelineHandler:  NewTimelineHandler(deps, maxTimelineLimit),
		selectionHandler: NewSelectionHandler(deps),
		filtersHandler:   NewFiltersHandler(deps),
		analysisHandler:  NewAnalysisHandler(deps),
		jobsHandler:      NewJobsHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games/select", MetricsMiddleware(s.gamesHandler.HandleSelectGame, "games_select"))
	mux.HandleFunc("/timeline", MetricsMiddleware(s.timelineHandler.HandleGetTimeline, "timeline"))
	mux.HandleFunc("/selection", MetricsMiddleware(s.selectionHandler.HandleGetSelection, "selection"))
	mux.HandleFunc("/selection/", MetricsMiddleware(s.selectionHandler.HandleTransition, "selection_transition"))
	mux.HandleFunc("/filters", MetricsMiddleware(s.filtersHandler.HandleFilters, "filters"))
	mux.HandleFunc("/filters/toggle", MetricsMiddleware(s.filtersHandler.HandleToggle, "filters_toggle"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.analysisHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobsHandler.HandleGetJobs, "jobs"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// decodeBody decodes a JSON request body into v, rejecting unknown noise.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
