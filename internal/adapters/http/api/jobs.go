// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/refsight/refsight/internal/domain/types"
)

// JobDependencies defines the interface for ingestion job reads.
type JobDependencies interface {
	Jobs(ctx context.Context) []types.JobView
}

// JobsHandler handles ingestion job status requests.
type JobsHandler struct {
	deps JobDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleGetJobs handles GET /jobs requests. Progress and stage in the
// response are always locally derived from the job status.
func (h *JobsHandler) HandleGetJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Jobs(r.Context()))
}
