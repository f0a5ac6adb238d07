package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusSkipped    JobStatus = "SKIPPED"
	JobStatusTruncated  JobStatus = "TRUNCATED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Job tracks the rendering of one input video into its barcode images.
type Job struct {
	ID           uuid.UUID
	VideoPath    string
	OutputPaths  []string
	Status       JobStatus
	StripCount   int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

func NewJob(videoPath string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		VideoPath: videoPath,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (j *Job) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) MarkCompleted(outputPaths []string, stripCount int) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.OutputPaths = outputPaths
	j.StripCount = stripCount
	j.UpdatedAt = now
	j.CompletedAt = &now
}

// MarkTruncated records a job whose sampling stopped early but whose
// partial barcode was still written.
func (j *Job) MarkTruncated(outputPaths []string, stripCount int, errMsg string) {
	now := time.Now().UTC()
	j.Status = JobStatusTruncated
	j.OutputPaths = outputPaths
	j.StripCount = stripCount
	j.ErrorMessage = errMsg
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *Job) MarkSkipped(reason string) {
	j.Status = JobStatusSkipped
	j.ErrorMessage = reason
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

// Wrote reports whether the job produced output files on disk.
func (j *Job) Wrote() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusTruncated
}
