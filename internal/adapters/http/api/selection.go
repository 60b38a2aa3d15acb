// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/refsight/refsight/internal/domain/types"
)

// SelectionDependencies defines the interface for selection operations.
type SelectionDependencies interface {
	SelectEvent(ctx context.Context, eventID string) types.SelectionView
	SelectClip(ctx context.Context, clipID string) types.SelectionView
	Hover(ctx context.Context, eventID string) types.SelectionView
	Selection(ctx context.Context) types.SelectionView
}

// SelectionHandler handles selection reads and transitions.
type SelectionHandler struct {
	deps SelectionDependencies
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(deps SelectionDependencies) *SelectionHandler {
	return &SelectionHandler{deps: deps}
}

// selectionRequest mirrors the OpenAPI schema for selection transitions.
// EventID carries the target for event and hover transitions, ClipID for
// clip transitions. Empty values clear the corresponding axis.
type selectionRequest struct {
	EventID string `json:"event_id,omitempty"`
	ClipID  string `json:"clip_id,omitempty"`
}

// HandleGetSelection handles GET /selection requests.
func (h *SelectionHandler) HandleGetSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Selection(r.Context()))
}

// HandleTransition handles POST /selection/{event|clip|hover} requests.
func (h *SelectionHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	const op = "api.selection_transition"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	kind := strings.TrimPrefix(r.URL.Path, "/selection/")
	if kind == "" || strings.Contains(kind, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req selectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var view types.SelectionView
	switch kind {
	case "event":
		view = h.deps.SelectEvent(r.Context(), req.EventID)
	case "clip":
		view = h.deps.SelectClip(r.Context(), req.ClipID)
	case "hover":
		view = h.deps.Hover(r.Context(), req.EventID)
	default:
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
