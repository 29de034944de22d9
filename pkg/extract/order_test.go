package extract_test

import (
	"math"
	"testing"

	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/layout"
)

func region(t layout.RegionType, x1, y1 int, text ...string) layout.Region {
	return layout.NewRegion(t, layout.BBox{X1: x1, Y1: y1, X2: x1 + 10, Y2: y1 + 10}, text, "", nil)
}

func TestOrderReadingOrder(t *testing.T) {
	in := []layout.Region{
		region(layout.RegionText, 50, 100, "c"),
		region(layout.RegionText, 10, 10, "a"),
		region(layout.RegionText, 5, 100, "b"),
		region(layout.RegionText, 0, 300, "d"),
	}
	got := extract.Order(in)

	want := []string{"a", "b", "c", "d"}
	for i, r := range got {
		if r.Fragments()[0] != want[i] {
			t.Fatalf("position %d = %q, want %q", i, r.Fragments()[0], want[i])
		}
	}
	if in[0].Fragments()[0] != "c" {
		t.Fatal("input slice must not be reordered")
	}
}

func TestOrderIsStable(t *testing.T) {
	in := []layout.Region{
		region(layout.RegionText, 10, 10, "first"),
		region(layout.RegionTable, 10, 10, "second"),
		region(layout.RegionFigure, 10, 10, "third"),
	}
	got := extract.Order(in)
	for i, r := range got {
		if r.Type != in[i].Type {
			t.Fatalf("equal keys reordered at %d: %s", i, r.Type)
		}
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := extract.Order(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestOrderExtremeCoordinates(t *testing.T) {
	in := []layout.Region{
		region(layout.RegionText, 0, 1, "low"),
		region(layout.RegionText, 0, math.MinInt, "top"),
		region(layout.RegionText, math.MaxInt-10, 1, "right"),
		region(layout.RegionText, math.MinInt, 1, "left"),
	}
	got := extract.Order(in)

	want := []string{"top", "left", "low", "right"}
	for i, r := range got {
		if r.Fragments()[0] != want[i] {
			t.Fatalf("position %d = %q, want %q", i, r.Fragments()[0], want[i])
		}
	}
}
