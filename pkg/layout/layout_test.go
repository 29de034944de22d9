package layout_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/Abraxas-365/docextract/pkg/layout"
)

func TestParseRegionType(t *testing.T) {
	cases := map[string]struct {
		want layout.RegionType
		ok   bool
	}{
		"text":    {layout.RegionText, true},
		"Table":   {layout.RegionTable, true},
		" figure": {layout.RegionFigure, true},
		"title":   {layout.RegionTitle, true},
		"list":    {layout.RegionList, true},
		"header":  {"", false},
		"":        {"", false},
	}
	for tag, tc := range cases {
		got, ok := layout.ParseRegionType(tag)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRegionType(%q) = (%q, %v), want (%q, %v)", tag, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewRegionPicksPayload(t *testing.T) {
	box := layout.BBox{X1: 0, Y1: 0, X2: 10, Y2: 10}

	table := layout.NewRegion(layout.RegionTable, box, []string{"ignored"}, "<table></table>", nil)
	if html, ok := table.TableHTML(); !ok || html != "<table></table>" {
		t.Fatalf("table markup = (%q, %v)", html, ok)
	}
	if table.Fragments() != nil {
		t.Fatal("table region must not expose fragments")
	}

	figure := layout.NewRegion(layout.RegionFigure, box, []string{"caption"}, "", nil)
	if _, ok := figure.Payload.(layout.FigurePayload); !ok {
		t.Fatalf("figure payload is %T", figure.Payload)
	}
	if got := figure.Fragments(); len(got) != 1 || got[0] != "caption" {
		t.Fatalf("figure fragments = %v", got)
	}

	title := layout.NewRegion(layout.RegionTitle, box, []string{"Title"}, "", nil)
	if _, ok := title.Payload.(layout.TextPayload); !ok {
		t.Fatalf("title payload is %T", title.Payload)
	}
}

func TestEmptyTableMarkupIsMissing(t *testing.T) {
	r := layout.NewRegion(layout.RegionTable, layout.BBox{X2: 1, Y2: 1}, nil, "   ", nil)
	if _, ok := r.TableHTML(); ok {
		t.Fatal("blank markup should be reported as missing")
	}
}

func TestNewRegionDropsCropForInvalidBox(t *testing.T) {
	crop := image.NewRGBA(image.Rect(0, 0, 4, 4))
	r := layout.NewRegion(layout.RegionFigure, layout.BBox{X1: 5, Y1: 5, X2: 5, Y2: 9}, nil, "", crop)
	if r.Crop != nil {
		t.Fatal("invalid box must not carry a crop")
	}
}

func TestCropPadsAndClamps(t *testing.T) {
	page := image.NewRGBA(image.Rect(0, 0, 100, 80))
	page.Set(20, 20, color.RGBA{R: 255, A: 255})

	got := layout.Crop(page, layout.BBox{X1: 20, Y1: 20, X2: 40, Y2: 30}, 5)
	if got == nil {
		t.Fatal("expected a crop")
	}
	if b := got.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Fatalf("crop size = %dx%d, want 30x20", b.Dx(), b.Dy())
	}
	if r, _, _, _ := got.At(5, 5).RGBA(); r == 0 {
		t.Fatal("expected the marked pixel at the padded offset")
	}

	edge := layout.Crop(page, layout.BBox{X1: 0, Y1: 0, X2: 10, Y2: 10}, 5)
	if b := edge.Bounds(); b.Dx() != 15 || b.Dy() != 15 {
		t.Fatalf("edge crop size = %dx%d, want 15x15", b.Dx(), b.Dy())
	}
}

func TestCropRejectsInvalidAndOutside(t *testing.T) {
	page := image.NewRGBA(image.Rect(0, 0, 50, 50))
	if layout.Crop(page, layout.BBox{X1: 10, Y1: 10, X2: 5, Y2: 20}, 0) != nil {
		t.Fatal("inverted box must yield nil")
	}
	if layout.Crop(page, layout.BBox{X1: 200, Y1: 200, X2: 210, Y2: 210}, 0) != nil {
		t.Fatal("box outside the page must yield nil")
	}
	if layout.Crop(nil, layout.BBox{X2: 1, Y2: 1}, 0) != nil {
		t.Fatal("nil page must yield nil")
	}
}
