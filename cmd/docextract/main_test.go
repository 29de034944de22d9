package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/extract"
)

func TestLoadOptionsDefaults(t *testing.T) {
	opts, err := loadOptions([]string{"a.pdf", "b.png"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Mode != extract.ModeAll || !opts.Layout || opts.Workers != 2 || opts.Output != "-" {
		t.Fatalf("defaults = %+v", opts)
	}
	if len(opts.Files) != 2 || opts.Files[1] != "b.png" {
		t.Fatalf("files = %v", opts.Files)
	}
}

func TestLoadOptionsEnvAndFlags(t *testing.T) {
	t.Setenv("DOCEXTRACT_ENGINE_URL", "http://ocr:9000")
	t.Setenv("DOCEXTRACT_MODE", "table_only")
	t.Setenv("DOCEXTRACT_WORKERS", "8")

	opts, err := loadOptions([]string{"--workers=3", "--layout=false", "scan.pdf"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.EngineURL != "http://ocr:9000" {
		t.Fatalf("env not applied: %q", opts.EngineURL)
	}
	if opts.Mode != extract.ModeTableOnly {
		t.Fatalf("mode = %q", opts.Mode)
	}
	if opts.Workers != 3 {
		t.Fatalf("flag should win over env, workers = %d", opts.Workers)
	}
	if opts.Layout {
		t.Fatal("layout should be disabled")
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	if _, err := loadOptions(nil, io.Discard); err == nil {
		t.Fatal("no files must fail")
	}
	_, err := loadOptions([]string{"--mode=EVERYTHING", "a.png"}, io.Discard)
	if !errx.HasCode(err, extract.ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	if _, err := loadOptions([]string{"--engine=cloud", "a.png"}, io.Discard); err == nil {
		t.Fatal("unknown engine must fail")
	}
}

type countingExtractor struct {
	calls atomic.Int32
}

func (c *countingExtractor) Handle(_ context.Context, req extract.Request) extract.Aggregate {
	c.calls.Add(1)
	agg := extract.Aggregate{RunID: "run-" + req.Source, PageCount: 1}
	if strings.HasPrefix(req.Source, "bad") {
		agg.Failures = []extract.Failure{{PageNumber: -1, Order: -1, Code: extract.ErrSourceUnreadable.Code}}
	}
	return agg
}

func TestRunBatchKeepsOrder(t *testing.T) {
	ex := &countingExtractor{}
	files := []string{"a.png", "bad.pdf", "c.png", "d.png"}

	results := runBatch(context.Background(), ex, files, extract.Request{Mode: extract.ModeAll}, 3)

	if int(ex.calls.Load()) != len(files) {
		t.Fatalf("calls = %d", ex.calls.Load())
	}
	for i, r := range results {
		if r.File != files[i] || r.Aggregate.RunID != "run-"+files[i] {
			t.Fatalf("result %d = %+v", i, r)
		}
	}
	if !results[1].Degraded || results[0].Degraded {
		t.Fatal("degraded flag wrong")
	}
	if !anyDegraded(results) {
		t.Fatal("anyDegraded should be true")
	}

	var buf bytes.Buffer
	if err := writeResults(&buf, results, false); err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 4 || decoded[0]["file"] != "a.png" {
		t.Fatalf("output = %s", buf.String())
	}
}

func TestRunBatchReportsCancelledFiles(t *testing.T) {
	ex := &countingExtractor{}
	files := []string{"a.png", "b.png", "c.png"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := runBatch(ctx, ex, files, extract.Request{Mode: extract.ModeAll}, 2)

	if ex.calls.Load() != 0 {
		t.Fatalf("calls = %d, want none after cancel", ex.calls.Load())
	}
	if len(results) != len(files) {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.File != files[i] || !r.Degraded {
			t.Fatalf("result %d = %+v", i, r)
		}
		if len(r.Aggregate.Failures) != 1 || r.Aggregate.Failures[0].Code != extract.ErrCancelled.Code {
			t.Fatalf("result %d failures = %+v", i, r.Aggregate.Failures)
		}
	}
	if !anyDegraded(results) {
		t.Fatal("cancelled batch must count as degraded")
	}
}
