package domain

// IngestStage identifies where an ingestion job currently is.
// Stages run strictly in sequence; Error is terminal and reachable
// from any stage.
type IngestStage string

// Ingestion stages.
const (
	StageUploading  IngestStage = "uploading"
	StageExtracting IngestStage = "extracting"
	StageChunking   IngestStage = "chunking"
	StageEmbedding  IngestStage = "embedding"
	StageIndexing   IngestStage = "indexing"
	StageComplete   IngestStage = "complete"
	StageError      IngestStage = "error"
)

// Terminal reports whether the stage ends the job.
func (s IngestStage) Terminal() bool {
	return s == StageComplete || s == StageError
}

// IngestProgress is one advisory progress event for an ingestion job.
// Percent is monotonically non-decreasing within a job and resets per
// job. Consumers must tolerate skipped intermediate percentages but
// always see a final Complete or Error event.
type IngestProgress struct {
	// Stage is the current pipeline stage.
	Stage IngestStage

	// Percent is the job progress in 0-100.
	Percent int

	// Message is a short human-readable status line.
	Message string

	// Err carries the failure when Stage is StageError, nil otherwise.
	Err error
}
