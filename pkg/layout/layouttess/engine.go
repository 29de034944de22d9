//go:build tesseract

// Package layouttess is a local layout.Engine built on Tesseract. Tesseract
// segments a page into blocks but does not classify them, so every block is
// reported as a text region.
//
// It requires Tesseract to be installed and the binary to be built with the
// "tesseract" build tag:
//
//	go build -tags tesseract ./...
package layouttess

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/Abraxas-365/docextract/pkg/layout"
)

// Engine wraps a gosseract client. The underlying client is not safe for
// concurrent use, so calls are serialized.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a Tesseract backed engine. Close releases it.
func New() (*Engine, error) {
	return &Engine{client: gosseract.NewClient()}, nil
}

// Close releases Tesseract resources.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

// Detect recognizes page. With layout enabled each Tesseract block becomes a
// text region; otherwise the whole page is returned as one region.
func (e *Engine) Detect(ctx context.Context, page image.Image, opts layout.DetectOptions) ([]layout.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, page); err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEncodePage, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetLanguage(tesseractLang(opts.Language)); err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineRejected, err).
			WithDetail("language", opts.Language)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineRejected, err)
	}

	if !opts.LayoutEnabled {
		text, err := e.client.Text()
		if err != nil {
			return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineUnavailable, err)
		}
		b := page.Bounds()
		box := layout.BBox{X1: 0, Y1: 0, X2: b.Dx(), Y2: b.Dy()}
		return []layout.Region{layout.NewRegion(layout.RegionText, box, splitLines(text), "", nil)}, nil
	}

	blocks, err := e.client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, layout.ErrRegistry.NewWithCause(layout.ErrEngineUnavailable, err)
	}

	regions := make([]layout.Region, 0, len(blocks))
	for _, b := range blocks {
		box := layout.BBox{X1: b.Box.Min.X, Y1: b.Box.Min.Y, X2: b.Box.Max.X, Y2: b.Box.Max.Y}
		regions = append(regions, layout.NewRegion(layout.RegionText, box, splitLines(b.Word), "", nil))
	}
	return regions, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
