package jobs

import (
	"time"

	"github.com/Abraxas-365/docextract/pkg/extract"
)

// Status is the lifecycle state of an extraction job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRetrying  Status = "retrying"
)

// Submission is what a client hands in: an uploaded document stored under
// SourceKey plus the extraction settings.
type Submission struct {
	Queue         string       `json:"queue"`
	SourceKey     string       `json:"source_key"`
	FileName      string       `json:"file_name"`
	Kind          extract.Kind `json:"kind"`
	Mode          extract.Mode `json:"mode"`
	Language      string       `json:"language"`
	LayoutEnabled bool         `json:"layout_enabled"`

	// MaxRetries is the maximum number of attempts. Default is 3.
	MaxRetries int `json:"max_retries"`
}

// Job is the stored state of a submission.
type Job struct {
	ID         string             `json:"id"`
	Submission Submission         `json:"submission"`
	Status     Status             `json:"status"`
	Result     *extract.Aggregate `json:"result,omitempty"`
	Error      string             `json:"error,omitempty"`
	Attempts   int                `json:"attempts"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Done reports whether the job reached a terminal state.
func (j *Job) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
