package extract

import (
	"context"
	"time"
)

// Result is a finished extraction kept for later retrieval.
type Result struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id,omitempty"`
	Source    string    `json:"source"`
	Mode      Mode      `json:"mode"`
	Aggregate Aggregate `json:"aggregate"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResult wraps agg for storage. The run ID doubles as result ID.
func NewResult(jobID string, req Request, agg Aggregate) Result {
	return Result{
		ID:        agg.RunID,
		JobID:     jobID,
		Source:    req.Source,
		Mode:      req.Mode,
		Aggregate: agg,
		CreatedAt: time.Now().UTC(),
	}
}

// ResultRepository stores finished extractions.
type ResultRepository interface {
	Save(ctx context.Context, r Result) error
	FindByID(ctx context.Context, id string) (*Result, error)
	FindByJobID(ctx context.Context, jobID string) (*Result, error)
	ListRecent(ctx context.Context, limit int) ([]*Result, error)
}
