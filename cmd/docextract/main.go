// Command docextract extracts text, tables and figures from scanned
// documents and prints one JSON aggregate per input file.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/layout/layouthttp"
	"github.com/Abraxas-365/docextract/pkg/layout/layouttess"
	"github.com/Abraxas-365/docextract/pkg/logx"
	"github.com/Abraxas-365/docextract/pkg/sheet"
	"github.com/Abraxas-365/docextract/pkg/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := loadOptions(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		logx.WithError(err).Error("invalid options")
		return 2
	}
	logx.SetLevel(logx.ParseLevel(opts.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := newEngine(opts)
	if err != nil {
		logx.WithError(err).Error("failed to initialize layout engine")
		return 1
	}
	if closer, ok := engine.(io.Closer); ok {
		defer closer.Close()
	}

	artifacts, err := storage.Open(ctx, storage.Config{
		Backend:  opts.Storage,
		Bucket:   opts.Bucket,
		Region:   opts.Region,
		Prefix:   opts.Prefix,
		LocalDir: opts.OutputDir,
	})
	if err != nil {
		logx.WithError(err).Error("failed to initialize artifact storage")
		return 1
	}

	driver := extract.NewDriver(engine, artifacts, sheet.NewConverter(),
		extract.WithSizeFilter(extract.NewMinSizeFilter(opts.MinFigure)),
		extract.WithRunStore(func(runID string) extract.Store { return artifacts.ForRun(runID) }),
	)

	results := runBatch(ctx, driver, opts.Files, extract.Request{
		Mode:          opts.Mode,
		Language:      opts.Language,
		LayoutEnabled: opts.Layout,
	}, opts.Workers)

	out := io.Writer(os.Stdout)
	if opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			logx.WithError(err).Error("failed to create output file")
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := writeResults(out, results, opts.Pretty); err != nil {
		logx.WithError(err).Error("failed to write results")
		return 1
	}

	if opts.Strict && anyDegraded(results) {
		return 1
	}
	return 0
}

func newEngine(opts *options) (layout.Engine, error) {
	if opts.Engine == "tesseract" {
		return layouttess.New()
	}
	return layouthttp.NewClient(opts.EngineURL,
		layouthttp.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
		layouthttp.WithCropPadding(opts.CropPadding),
	), nil
}
