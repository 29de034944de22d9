package main

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/Abraxas-365/docextract/pkg/jobs"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

// Extractor runs one extraction request.
type Extractor interface {
	Handle(ctx context.Context, req extract.Request) extract.Aggregate
}

// NewJobHandler builds the worker handler: it copies the uploaded document
// to a local temp file, extracts it and stores the result. results may be nil.
func NewJobHandler(uploads fsx.FileReader, extractor Extractor, results extract.ResultRepository, tempRoot string) jobs.Handler {
	return func(ctx context.Context, job *jobs.Job) (extract.Aggregate, error) {
		sub := job.Submission
		log := logx.WithFields(logx.Fields{"job_id": job.ID, "source_key": sub.SourceKey})

		local, err := fetchUpload(ctx, uploads, sub.SourceKey, tempRoot)
		if err != nil {
			return extract.Aggregate{}, err
		}
		defer os.Remove(local)

		req := extract.Request{
			Source:        local,
			Kind:          sub.Kind,
			Mode:          sub.Mode,
			Language:      sub.Language,
			LayoutEnabled: sub.LayoutEnabled,
		}
		agg := extractor.Handle(ctx, req)
		log.WithFields(logx.Fields{
			"run_id":   agg.RunID,
			"pages":    agg.PageCount,
			"failures": len(agg.Failures),
		}).Info("extraction finished")

		if results != nil {
			req.Source = sub.FileName
			if err := results.Save(ctx, extract.NewResult(job.ID, req, agg)); err != nil {
				log.WithError(err).Warn("failed to store extraction result")
			}
		}
		return agg, nil
	}
}

func fetchUpload(ctx context.Context, uploads fsx.FileReader, key, tempRoot string) (string, error) {
	rc, err := uploads.ReadFileStream(ctx, key)
	if err != nil {
		return "", errx.Wrap(err, "failed to read uploaded document", errx.TypeExternal).WithDetail("key", key)
	}
	defer rc.Close()

	f, err := os.CreateTemp(tempRoot, "upload-*"+strings.ToLower(path.Ext(key)))
	if err != nil {
		return "", errx.Wrap(err, "failed to create temp file", errx.TypeInternal)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		os.Remove(f.Name())
		return "", errx.Wrap(err, "failed to copy uploaded document", errx.TypeInternal).WithDetail("key", key)
	}
	return f.Name(), nil
}
