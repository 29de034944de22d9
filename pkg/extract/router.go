package extract

import "github.com/Abraxas-365/docextract/pkg/layout"

// Disposition says what a page run does with one region. The flags are
// independent; a region may produce a coordinate record and text at once.
type Disposition struct {
	Coordinates bool
	Figure      bool
	Text        bool
	Table       bool
}

// Skip reports whether nothing fires for the region.
func (d Disposition) Skip() bool {
	return !d.Coordinates && !d.Figure && !d.Text && !d.Table
}

func modeIn(m Mode, set ...Mode) bool {
	for _, s := range set {
		if m == s {
			return true
		}
	}
	return false
}

// Route decides the disposition of a region of type t under mode m. Figure
// persistence is additionally subject to the size filter at the call site.
func Route(t layout.RegionType, m Mode) Disposition {
	var d Disposition

	switch t {
	case layout.RegionTable, layout.RegionFigure:
		d.Coordinates = modeIn(m, ModeImageTableCoordinates, ModeAll)
	}

	switch t {
	case layout.RegionText:
		d.Text = modeIn(m, ModeTextOnly, ModeTextAndTable, ModeImageAndTable, ModeAll)
	case layout.RegionFigure:
		d.Text = modeIn(m, ModeTextOnly, ModeImageAndTable, ModeAll)
		d.Figure = modeIn(m, ModeImageAndTable, ModeAll)
	case layout.RegionTable:
		d.Table = modeIn(m, ModeTableOnly, ModeTextAndTable, ModeImageAndTable, ModeAll)
	}
	return d
}
