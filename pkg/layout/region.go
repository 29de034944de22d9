package layout

import (
	"image"
	"strings"
)

// RegionType is the layout class the engine assigned to a region.
type RegionType string

const (
	RegionText   RegionType = "text"
	RegionTitle  RegionType = "title"
	RegionTable  RegionType = "table"
	RegionFigure RegionType = "figure"
	RegionList   RegionType = "list"
)

// ParseRegionType maps an engine tag onto a known RegionType. Engines are not
// consistent about case, so the tag is normalized first. Unknown tags report
// false and must be dropped by the adapter.
func ParseRegionType(tag string) (RegionType, bool) {
	switch t := RegionType(strings.ToLower(strings.TrimSpace(tag))); t {
	case RegionText, RegionTitle, RegionTable, RegionFigure, RegionList:
		return t, true
	}
	return "", false
}

// BBox is an axis aligned box in page pixel space.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Valid reports whether the box has positive width and height.
func (b BBox) Valid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Rect converts the box to an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Array returns the box as [x1, y1, x2, y2], the shape used in results.
func (b BBox) Array() [4]int {
	return [4]int{b.X1, b.Y1, b.X2, b.Y2}
}

// Payload is the recognized content of a region. The concrete type depends
// on the region type and is one of TextPayload, TablePayload or FigurePayload.
type Payload interface {
	payload()
}

// TextPayload carries the recognized lines of text, title and list regions.
type TextPayload struct {
	Fragments []string
}

// TablePayload carries the table structure as HTML. HTML may be empty when
// the engine found a table but could not recognize its structure.
type TablePayload struct {
	HTML string
}

// FigurePayload carries any text recognized inside a figure.
type FigurePayload struct {
	Fragments []string
}

func (TextPayload) payload()   {}
func (TablePayload) payload()  {}
func (FigurePayload) payload() {}

// Region is one detected layout element of a page. Regions are produced by
// an Engine and are not modified afterwards.
type Region struct {
	Type    RegionType
	BBox    BBox
	Payload Payload
	// Crop is the region's pixels, nil when the box is invalid or the engine
	// did not provide them.
	Crop image.Image
}

// Fragments returns the recognized text of text-like and figure payloads.
func (r Region) Fragments() []string {
	switch p := r.Payload.(type) {
	case TextPayload:
		return p.Fragments
	case FigurePayload:
		return p.Fragments
	}
	return nil
}

// TableHTML returns the table markup and whether any was recognized.
func (r Region) TableHTML() (string, bool) {
	p, ok := r.Payload.(TablePayload)
	if !ok || strings.TrimSpace(p.HTML) == "" {
		return "", false
	}
	return p.HTML, true
}

// NewRegion builds a region for type t, choosing the payload variant that
// matches the type. text holds recognized lines and html the table markup;
// the one that does not apply to t is ignored.
func NewRegion(t RegionType, box BBox, text []string, html string, crop image.Image) Region {
	r := Region{Type: t, BBox: box, Crop: crop}
	switch t {
	case RegionTable:
		r.Payload = TablePayload{HTML: html}
	case RegionFigure:
		r.Payload = FigurePayload{Fragments: text}
	default:
		r.Payload = TextPayload{Fragments: text}
	}
	if !box.Valid() {
		r.Crop = nil
	}
	return r
}
