// Package repository defines the review data store interface and errors.
package repository

import (
	"context"

	"github.com/refsight/refsight/internal/domain/model"
)

// Store holds the fetched review data for the dashboard session: marker
// sets keyed by game, analysis surfaces keyed by event, and the latest
// ingestion job snapshot. All data is fetched fresh from upstream and held
// read-only here; mutation happens server-side.
type Store interface {
	// ReplaceMarkers swaps in the marker set for a game, dropping markers
	// with duplicate ids (first occurrence wins). Returns the stored count.
	ReplaceMarkers(ctx context.Context, gameID string, markers []model.Marker) (int, error)

	// Markers returns the marker set for a game.
	// Returns ErrGameNotFound if no set has been committed for the game.
	Markers(ctx context.Context, gameID string) ([]model.Marker, error)

	// ReplaceSurfaces swaps in the analysis surfaces for an event.
	ReplaceSurfaces(ctx context.Context, eventID string, surfaces []model.AnalysisSurface)

	// Surfaces returns the cached surfaces for an event. The second result
	// reports whether the event has been fetched at all; a fetched event may
	// legitimately have zero surfaces.
	Surfaces(ctx context.Context, eventID string) ([]model.AnalysisSurface, bool)

	// ReplaceJobs swaps in the latest ingestion job snapshot.
	ReplaceJobs(ctx context.Context, jobs []model.IngestionJob)

	// Jobs returns the latest ingestion job snapshot.
	Jobs(ctx context.Context) []model.IngestionJob

	// GameCount returns the number of games with a committed marker set.
	GameCount(ctx context.Context) int

	// MarkerCount returns the total number of markers across all games.
	MarkerCount(ctx context.Context) int
}
