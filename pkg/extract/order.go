package extract

import (
	"cmp"
	"slices"

	"github.com/Abraxas-365/docextract/pkg/layout"
)

// Order returns regions in reading order: top to bottom, then left to right.
// Regions with equal coordinates keep the engine's order. The input slice is
// left untouched.
func Order(regions []layout.Region) []layout.Region {
	out := slices.Clone(regions)
	slices.SortStableFunc(out, func(a, b layout.Region) int {
		if c := cmp.Compare(a.BBox.Y1, b.BBox.Y1); c != 0 {
			return c
		}
		return cmp.Compare(a.BBox.X1, b.BBox.X1)
	})
	return out
}
