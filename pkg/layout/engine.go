package layout

import (
	"context"
	"image"
)

// DetectOptions tune a single Detect call.
type DetectOptions struct {
	// Language is the recognition language, e.g. "en" or "es".
	Language string
	// LayoutEnabled asks the engine to run layout analysis. When false the
	// engine may return the whole page as a single text region.
	LayoutEnabled bool
}

// Engine detects and recognizes the layout regions of one page image.
// Implementations drop region tags they do not recognize and fill Crop for
// table and figure regions when the box is valid.
type Engine interface {
	Detect(ctx context.Context, page image.Image, opts DetectOptions) ([]Region, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, page image.Image, opts DetectOptions) ([]Region, error)

// Detect calls f.
func (f EngineFunc) Detect(ctx context.Context, page image.Image, opts DetectOptions) ([]Region, error) {
	return f(ctx, page, opts)
}
