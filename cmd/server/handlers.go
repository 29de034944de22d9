package main

import (
	"net/http"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Abraxas-365/docextract/pkg/config"
	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/Abraxas-365/docextract/pkg/jobs"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

var apiErrors = errx.NewRegistry("API")

var (
	ErrMissingFile     = apiErrors.Register("MISSING_FILE", errx.TypeValidation, http.StatusBadRequest, "A document must be uploaded in the 'file' field")
	ErrUnsupportedFile = apiErrors.Register("UNSUPPORTED_FILE", errx.TypeValidation, http.StatusUnsupportedMediaType, "Unsupported document type")
	ErrUploadFailed    = apiErrors.Register("UPLOAD_FAILED", errx.TypeExternal, http.StatusBadGateway, "Document could not be stored")
)

var supportedExts = map[string]extract.Kind{
	".pdf":  extract.KindPDF,
	".png":  extract.KindImage,
	".jpg":  extract.KindImage,
	".jpeg": extract.KindImage,
	".gif":  extract.KindImage,
	".bmp":  extract.KindImage,
	".tif":  extract.KindImage,
	".tiff": extract.KindImage,
	".webp": extract.KindImage,
}

// ExtractionAPI exposes job submission and status over HTTP.
type ExtractionAPI struct {
	queue    jobs.Queue
	uploads  fsx.FileSystem
	results  extract.ResultRepository
	defaults config.ExtractionConfig
	jobs     config.JobsConfig
}

// NewExtractionAPI creates the handlers. results may be nil.
func NewExtractionAPI(queue jobs.Queue, uploads fsx.FileSystem, results extract.ResultRepository,
	defaults config.ExtractionConfig, jobsCfg config.JobsConfig) *ExtractionAPI {
	return &ExtractionAPI{queue: queue, uploads: uploads, results: results, defaults: defaults, jobs: jobsCfg}
}

// RegisterRoutes mounts the API under /api/v1.
func (a *ExtractionAPI) RegisterRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1")
	v1.Post("/extractions", a.submit)
	v1.Get("/extractions/:id", a.status)
	v1.Get("/results", a.listResults)
	v1.Get("/results/:id", a.result)
}

// submit stores the uploaded document and queues an extraction job.
func (a *ExtractionAPI) submit(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apiErrors.New(ErrMissingFile)
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	kind, ok := supportedExts[ext]
	if !ok {
		return apiErrors.New(ErrUnsupportedFile).WithDetail("extension", ext)
	}

	mode, err := extract.ParseMode(c.FormValue("mode", a.defaults.DefaultMode))
	if err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return apiErrors.NewWithCause(ErrUploadFailed, err)
	}
	defer f.Close()

	key := a.uploads.Join("uploads", uuid.NewString()+ext)
	if err := a.uploads.WriteFileStream(c.Context(), key, f); err != nil {
		return apiErrors.NewWithCause(ErrUploadFailed, err).WithDetail("key", key)
	}

	jobID, err := jobs.Submit(c.Context(), a.queue, jobs.Submission{
		Queue:         a.submitQueue(),
		SourceKey:     key,
		FileName:      fh.Filename,
		Kind:          kind,
		Mode:          mode,
		Language:      c.FormValue("language", a.defaults.Language),
		LayoutEnabled: c.FormValue("layout", boolString(a.defaults.LayoutEnabled)) != "false",
		MaxRetries:    a.jobs.MaxRetries,
	})
	if err != nil {
		return err
	}

	logx.WithFields(logx.Fields{
		"job_id":    jobID,
		"file_name": fh.Filename,
		"mode":      mode,
		"size":      fh.Size,
	}).Info("extraction job submitted")

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": jobID,
		"status": jobs.StatusPending,
	})
}

// status returns the job state, falling back to the stored result once the
// job record has expired.
func (a *ExtractionAPI) status(c *fiber.Ctx) error {
	id := c.Params("id")

	job, err := a.queue.GetJob(c.Context(), id)
	if err == nil {
		return c.JSON(job)
	}
	if !errx.HasCode(err, jobs.ErrJobNotFound) || a.results == nil {
		return err
	}

	res, rerr := a.results.FindByJobID(c.Context(), id)
	if rerr != nil {
		if errx.HasCode(rerr, extract.ErrResultNotFound) {
			return err
		}
		return rerr
	}
	return c.JSON(fiber.Map{
		"id":     id,
		"status": jobs.StatusCompleted,
		"result": res.Aggregate,
	})
}

func (a *ExtractionAPI) listResults(c *fiber.Ctx) error {
	if a.results == nil {
		return c.JSON(fiber.Map{"results": []any{}})
	}
	results, err := a.results.ListRecent(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": results})
}

func (a *ExtractionAPI) result(c *fiber.Ctx) error {
	if a.results == nil {
		return extract.ErrRegistry.New(extract.ErrResultNotFound)
	}
	res, err := a.results.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (a *ExtractionAPI) submitQueue() string {
	if len(a.jobs.Queues) > 0 {
		return a.jobs.Queues[0]
	}
	return jobs.DefaultQueue
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
