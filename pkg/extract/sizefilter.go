package extract

import "image"

// SizeFilter decides whether a figure crop is worth persisting.
type SizeFilter interface {
	Passes(img image.Image) bool
}

// DefaultMinFigureSide is the smallest width and height a figure may have.
const DefaultMinFigureSide = 50

// MinSizeFilter rejects nil crops and crops smaller than MinWidth x MinHeight.
type MinSizeFilter struct {
	MinWidth  int
	MinHeight int
}

// NewMinSizeFilter returns a filter requiring both sides to be at least side.
func NewMinSizeFilter(side int) MinSizeFilter {
	return MinSizeFilter{MinWidth: side, MinHeight: side}
}

func (f MinSizeFilter) Passes(img image.Image) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	return b.Dx() >= f.MinWidth && b.Dy() >= f.MinHeight
}

// SizeFilterFunc adapts a function to SizeFilter.
type SizeFilterFunc func(image.Image) bool

func (f SizeFilterFunc) Passes(img image.Image) bool { return f(img) }
