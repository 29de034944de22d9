package layout

import (
	"image"
	"image/draw"
)

// DefaultCropPadding is the margin in pixels added around a region when it
// is cut out of the page.
const DefaultCropPadding = 5

// Crop cuts box out of page, grown by pad pixels on every side and clamped
// to the page bounds. It returns nil when the box is invalid or lies
// outside the page. The returned image does not share pixels with page.
func Crop(page image.Image, box BBox, pad int) image.Image {
	if page == nil || !box.Valid() {
		return nil
	}
	if pad < 0 {
		pad = 0
	}
	bounds := page.Bounds()
	r := image.Rect(box.X1-pad, box.Y1-pad, box.X2+pad, box.Y2+pad).
		Add(bounds.Min).
		Intersect(bounds)
	if r.Empty() {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), page, r.Min, draw.Src)
	return dst
}
