//go:build !tesseract

// Package layouttess is a local layout.Engine built on Tesseract.
//
// This is the stub used when the "tesseract" build tag is not set. New
// returns an error carrying LAYOUT_ENGINE_NOT_ENABLED. Rebuild with
//
//	go build -tags tesseract ./...
//
// after installing Tesseract to enable it.
package layouttess

import (
	"context"
	"image"

	"github.com/Abraxas-365/docextract/pkg/layout"
)

// Engine is a stub engine that fails every call.
type Engine struct{}

// New reports that Tesseract support was not compiled in.
func New() (*Engine, error) {
	return nil, layout.ErrRegistry.New(layout.ErrEngineNotEnabled).
		WithDetail("build_tag", "tesseract")
}

// Close is a no-op. It is safe to call on a nil engine.
func (e *Engine) Close() error { return nil }

// Detect always fails.
func (e *Engine) Detect(context.Context, image.Image, layout.DetectOptions) ([]layout.Region, error) {
	return nil, layout.ErrRegistry.New(layout.ErrEngineNotEnabled)
}
