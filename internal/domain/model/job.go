package model

// JobStatus is the coarse pipeline status reported by the video ingestion
// backend. Progress and stage text are always derived from it locally; any
// progress fields the backend sends are ignored.
type JobStatus string

// Ingestion pipeline statuses in intended order.
const (
	JobQueued             JobStatus = "queued"
	JobDownloading        JobStatus = "downloading"
	JobUploading          JobStatus = "uploading"
	JobProcessing         JobStatus = "processing"
	JobProcessingSkillDNA JobStatus = "processing_skilldna"
	JobGeneratingClips    JobStatus = "generating_clips"
	JobCompleted          JobStatus = "completed"
	JobFailed             JobStatus = "failed"
)

// IngestionJob is one server-tracked video processing run.
type IngestionJob struct {
	ID     string
	GameID string
	Status JobStatus
}
