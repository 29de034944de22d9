package jobs

import (
	"net/http"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

var jobErrors = errx.NewRegistry("JOBS")

var (
	ErrJobNotFound     = jobErrors.Register("JOB_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	ErrInvalidJob      = jobErrors.Register("INVALID_JOB", errx.TypeValidation, http.StatusBadRequest, "Invalid job definition")
	ErrAlreadyRunning  = jobErrors.Register("ALREADY_RUNNING", errx.TypeConflict, http.StatusConflict, "Worker is already running")
	ErrHandlerFailed   = jobErrors.Register("HANDLER_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Job handler failed")
	ErrShutdownTimeout = jobErrors.Register("SHUTDOWN_TIMEOUT", errx.TypeInternal, http.StatusInternalServerError, "Graceful shutdown timed out")
)

// NotFound builds the error backends return for unknown job IDs.
func NotFound(jobID string) error {
	return jobErrors.New(ErrJobNotFound).WithDetail("job_id", jobID)
}
