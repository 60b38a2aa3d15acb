// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/refsight/refsight/internal/domain/types"
)

// GameDependencies defines the interface for game selection.
type GameDependencies interface {
	SelectGame(ctx context.Context, gameID string) types.SelectionView
}

// GamesHandler handles game selection requests.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// gameSelectRequest mirrors the OpenAPI schema for POST /games/select.
type gameSelectRequest struct {
	GameID string `json:"game_id"`
}

// HandleSelectGame handles POST /games/select requests. The response is the
// reset selection snapshot; markers arrive asynchronously.
func (h *GamesHandler) HandleSelectGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_game"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req gameSelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if strings.TrimSpace(req.GameID) == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id", NewKind(op, ErrBadRequest))
		return
	}

	view := h.deps.SelectGame(r.Context(), req.GameID)
	writeJSON(w, http.StatusOK, view)
}
