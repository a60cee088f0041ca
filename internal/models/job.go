package models

import "time"

// JobStatus is the lifecycle state of a bulk job.
// Valid transitions: processing -> completed, processing -> error.
// Completed and error are terminal.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobError      JobStatus = "error"
)

// MaxBulkTexts is the hard cap on texts accepted in one bulk submission.
const MaxBulkTexts = 100

// BulkJob is the pollable progress record of a bulk analysis job.
// Processed is monotonically non-decreasing; Results is populated only when
// Status is completed; Error only when Status is error.
type BulkJob struct {
	JobID       string          `json:"job_id" db:"job_id"`
	Status      JobStatus       `json:"status" db:"status"`
	Processed   int             `json:"processed" db:"processed"`
	Total       int             `json:"total" db:"total"`
	CurrentText string          `json:"current_text,omitempty" db:"current_text"`
	Results     []*TextAnalysis `json:"results,omitempty" db:"-"`
	Error       string          `json:"error,omitempty" db:"error"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Terminal reports whether the job has reached a final state.
func (j *BulkJob) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobError
}
