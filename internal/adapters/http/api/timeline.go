// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/refsight/refsight/internal/domain/types"
)

// TimelineDependencies defines the interface for timeline reads.
type TimelineDependencies interface {
	Timeline(ctx context.Context, limit int) ([]types.TimelineEntry, error)
}

// TimelineHandler handles filtered timeline requests.
type TimelineHandler struct {
	deps     TimelineDependencies
	maxLimit int
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies, maxLimit int) *TimelineHandler {
	return &TimelineHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTimeline handles GET /timeline?limit=N requests. The limit is
// optional; when absent the configured maximum applies.
func (h *TimelineHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	entries, err := h.deps.Timeline(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
