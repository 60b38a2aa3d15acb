// Package source fetches markers, analysis surfaces, and ingestion jobs
// from the upstream detection backend.
//
// All sources are thin fetch wrappers: they perform one HTTP round trip,
// decode the payload into domain models at this boundary, and return. No
// retries, no caching; staleness guarding is the fetch pipeline's concern.
package source

import (
	"context"

	"github.com/refsight/refsight/internal/domain/model"
)

// MarkerSource fetches a game's timeline marker set.
type MarkerSource interface {
	FetchMarkers(ctx context.Context, gameID string) ([]model.Marker, error)
}

// SurfaceSource fetches the persona analysis surfaces for an event.
type SurfaceSource interface {
	FetchSurfaces(ctx context.Context, eventID string) ([]model.AnalysisSurface, error)
}

// JobSource fetches the current ingestion job statuses. Only the status
// field is consumed; any progress or stage the upstream sends is ignored
// and re-derived locally.
type JobSource interface {
	FetchJobs(ctx context.Context) ([]model.IngestionJob, error)
}
