// Package ingest derives display progress from ingestion job statuses.
package ingest

import (
	"github.com/refsight/refsight/internal/domain/model"
)

// stagePoint is one row of the status table.
type stagePoint struct {
	progress int
	stage    string
}

// statusTable maps every job status to its derived progress and stage text.
// Progress is monotonic in pipeline order; "failed" deliberately reports 0
// because the failure-point progress is not tracked upstream.
var statusTable = map[model.JobStatus]stagePoint{
	model.JobQueued:             {progress: 0, stage: "Waiting in queue..."},
	model.JobDownloading:        {progress: 20, stage: "Downloading source video..."},
	model.JobUploading:          {progress: 30, stage: "Uploading to processing storage..."},
	model.JobProcessing:         {progress: 50, stage: "Running event detection..."},
	model.JobProcessingSkillDNA: {progress: 70, stage: "Computing SkillDNA profiles..."},
	model.JobGeneratingClips:    {progress: 85, stage: "Extracting video clips..."},
	model.JobCompleted:          {progress: 100, stage: "Completed"},
	model.JobFailed:             {progress: 0, stage: "Failed"},
}

// PipelineOrder lists the statuses in intended pipeline order, terminal
// states last. Used by monitoring views and by tests asserting monotonicity.
func PipelineOrder() []model.JobStatus {
	return []model.JobStatus{
		model.JobQueued,
		model.JobDownloading,
		model.JobUploading,
		model.JobProcessing,
		model.JobProcessingSkillDNA,
		model.JobGeneratingClips,
		model.JobCompleted,
		model.JobFailed,
	}
}

// Progress returns the derived progress percentage for a status. Unknown
// statuses report 0, the same floor as queued.
func Progress(s model.JobStatus) int {
	return statusTable[s].progress
}

// Stage returns the human-readable stage label for a status. The string is
// display-only and must never be used as a control value. Unknown statuses
// report "Unknown".
func Stage(s model.JobStatus) string {
	if p, ok := statusTable[s]; ok {
		return p.stage
	}
	return "Unknown"
}

// Known reports whether the status is part of the pipeline enum.
func Known(s model.JobStatus) bool {
	_, ok := statusTable[s]
	return ok
}

// Terminal reports whether the status ends the pipeline.
func Terminal(s model.JobStatus) bool {
	return s == model.JobCompleted || s == model.JobFailed
}
