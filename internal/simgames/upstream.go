package simgames

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/refsight/refsight/pkg/logger"
)

// Upstream server timeout constants.
const (
	upstreamReadTimeout     = 5 * time.Second
	upstreamWriteTimeout    = 10 * time.Second
	upstreamShutdownTimeout = 5 * time.Second
)

// Upstream serves the generated games over the same REST surface the
// real detection backend exposes, so the review service under test can
// be pointed straight at it.
type Upstream struct {
	srv      *http.Server
	markers  map[string][]Marker  // game id -> markers
	surfaces map[string][]Surface // event id -> surfaces
	jobs     []IngestedJob
}

// newUpstream indexes the generated games and builds the server.
func newUpstream(addr string, games []Game) *Upstream {
	u := &Upstream{
		markers:  make(map[string][]Marker, len(games)),
		surfaces: make(map[string][]Surface),
		jobs:     make([]IngestedJob, 0, len(games)),
	}
	for _, g := range games {
		u.markers[g.ID] = g.Markers
		for _, s := range g.Surfaces {
			u.surfaces[s.EventID] = append(u.surfaces[s.EventID], s)
		}
		u.jobs = append(u.jobs, g.Job)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/games/", u.handleMarkers)
	mux.HandleFunc("/api/events/", u.handleSurfaces)
	mux.HandleFunc("/api/jobs", u.handleJobs)

	u.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       upstreamReadTimeout,
		WriteTimeout:      upstreamWriteTimeout,
		ReadHeaderTimeout: upstreamReadTimeout,
	}
	return u
}

// Start begins serving in the background.
func (u *Upstream) Start(ctx context.Context) {
	go func() {
		logger.Get().Info(ctx, "synthetic upstream listening", logger.String("addr", u.srv.Addr))
		if err := u.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error(ctx, "synthetic upstream failed", logger.Error(err))
		}
	}()
}

// Stop shuts the server down gracefully.
func (u *Upstream) Stop(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), upstreamShutdownTimeout)
	defer cancel()
	if err := u.srv.Shutdown(shutdownCtx); err != nil {
		logger.Get().Warn(ctx, "synthetic upstream shutdown failed", logger.Error(err))
	}
}

// handleMarkers serves GET /api/games/{id}/markers.
func (u *Upstream) handleMarkers(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/games/")
	gameID, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "markers" || gameID == "" {
		http.NotFound(w, r)
		return
	}

	markers, found := u.markers[gameID]
	if !found {
		http.NotFound(w, r)
		return
	}

	writeSimJSON(w, map[string]any{
		"game_id": gameID,
		"markers": markers,
	})
}

// handleSurfaces serves GET /api/events/{id}/surfaces.
func (u *Upstream) handleSurfaces(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/events/")
	eventID, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "surfaces" || eventID == "" {
		http.NotFound(w, r)
		return
	}

	// An event with no surfaces is a valid, empty response.
	writeSimJSON(w, map[string]any{
		"event_id": eventID,
		"surfaces": u.surfaces[eventID],
	})
}

// handleJobs serves GET /api/jobs.
func (u *Upstream) handleJobs(w http.ResponseWriter, _ *http.Request) {
	writeSimJSON(w, map[string]any{"jobs": u.jobs})
}

func writeSimJSON(w http.ResponseWriter, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
