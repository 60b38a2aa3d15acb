// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/refsight/refsight/internal/domain/types"
)

// FilterDependencies defines the interface for filter operations.
type FilterDependencies interface {
	ToggleEventType(ctx context.Context, eventType string) types.FilterView
	ToggleFoulType(ctx context.Context, foulType string) types.FilterView
	SetTimeRange(ctx context.Context, min, max float64) types.FilterView
	SetMinConfidence(ctx context.Context, min float64) types.FilterView
	ClearFilters(ctx context.Context) types.FilterView
	Filters(ctx context.Context) types.FilterView
}

// FiltersHandler handles filter reads and mutations.
type FiltersHandler struct {
	deps FilterDependencies
}

// NewFiltersHandler creates a new filters handler.
func NewFiltersHandler(deps FilterDependencies) *FiltersHandler {
	return &FiltersHandler{deps: deps}
}

// filterToggleRequest mirrors the OpenAPI schema for POST /filters/toggle.
// Axis selects which filter dimension the request targets; the set axes use
// Value, the range axes use Min/Max.
type filterToggleRequest struct {
	Axis  string   `json:"axis"`
	Value string   `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// HandleFilters handles GET /filters and DELETE /filters requests.
func (h *FiltersHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Filters(r.Context()))
	case http.MethodDelete:
		writeJSON(w, http.StatusOK, h.deps.ClearFilters(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

// HandleToggle handles POST /filters/toggle requests.
func (h *FiltersHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_filter"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req filterToggleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var view types.FilterView
	switch req.Axis {
	case "event_type":
		if strings.TrimSpace(req.Value) == "" {
			writeError(w, http.StatusBadRequest, "missing_value", NewKind(op, ErrBadRequest))
			return
		}
		view = h.deps.ToggleEventType(r.Context(), req.Value)
	case "foul_type":
		if strings.TrimSpace(req.Value) == "" {
			writeError(w, http.StatusBadRequest, "missing_value", NewKind(op, ErrBadRequest))
			return
		}
		view = h.deps.ToggleFoulType(r.Context(), req.Value)
	case "time_range":
		if req.Min == nil || req.Max == nil || *req.Min > *req.Max {
			writeError(w, http.StatusBadRequest, "bad_range", NewKind(op, ErrBadRequest))
			return
		}
		view = h.deps.SetTimeRange(r.Context(), *req.Min, *req.Max)
	case "min_confidence":
		if req.Min == nil {
			writeError(w, http.StatusBadRequest, "missing_min", NewKind(op, ErrBadRequest))
			return
		}
		view = h.deps.SetMinConfidence(r.Context(), *req.Min)
	default:
		writeError(w, http.StatusBadRequest, "unknown_axis", NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
