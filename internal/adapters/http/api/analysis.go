// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/refsight/refsight/internal/domain/types"
)

// AnalysisDependencies defines the interface for analysis resolution.
type AnalysisDependencies interface {
	Analysis(ctx context.Context, eventID, persona string) (types.SurfaceView, error)
}

// AnalysisHandler handles persona analysis requests.
type AnalysisHandler struct {
	deps AnalysisDependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleGetAnalysis handles GET /events/{event_id}/analysis?persona=P
// requests.
func (h *AnalysisHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract path parameters: /events/{event_id}/analysis
	path := strings.TrimPrefix(r.URL.Path, "/events/")
	eventID, rest, found := strings.Cut(path, "/")
	if !found || rest != "analysis" || eventID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	persona := r.URL.Query().Get("persona")
	view, err := h.deps.Analysis(r.Context(), eventID, persona)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
