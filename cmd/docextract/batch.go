package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/Abraxas-365/docextract/pkg/asyncx"
	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

// Extractor runs one extraction request.
type Extractor interface {
	Handle(ctx context.Context, req extract.Request) extract.Aggregate
}

type fileResult struct {
	File      string            `json:"file"`
	Degraded  bool              `json:"degraded"`
	Aggregate extract.Aggregate `json:"aggregate"`
}

// runBatch extracts every file with at most workers documents in flight.
// Results keep the order of files. Files never started because ctx ended are
// reported as cancelled.
func runBatch(ctx context.Context, ex Extractor, files []string, tmpl extract.Request, workers int) []fileResult {
	results, err := asyncx.Pool(ctx, workers, files, func(ctx context.Context, file string) (fileResult, error) {
		req := tmpl
		req.Source = file
		agg := ex.Handle(ctx, req)

		logx.WithFields(logx.Fields{
			"file":     file,
			"run_id":   agg.RunID,
			"pages":    agg.PageCount,
			"texts":    len(agg.Texts),
			"tables":   len(agg.Tables),
			"images":   len(agg.Images),
			"failures": len(agg.Failures),
		}).Info("document processed")

		return fileResult{File: file, Degraded: agg.Degraded(), Aggregate: agg}, nil
	})
	if err == nil {
		return results
	}

	skipped := 0
	for i, r := range results {
		if r.File != "" {
			continue
		}
		skipped++
		results[i] = fileResult{
			File:     files[i],
			Degraded: true,
			Aggregate: extract.Aggregate{
				Failures: []extract.Failure{{
					PageNumber: -1,
					Order:      -1,
					Stage:      extract.StageSource,
					Code:       extract.ErrCancelled.Code,
					Reason:     ctx.Err().Error(),
				}},
			},
		}
	}
	logx.WithFields(logx.Fields{"skipped": skipped, "files": len(files)}).
		WithError(err).Warn("batch interrupted")
	return results
}

func writeResults(w io.Writer, results []fileResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(results)
}

func anyDegraded(results []fileResult) bool {
	for _, r := range results {
		if r.Degraded {
			return true
		}
	}
	return false
}
