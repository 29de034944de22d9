package layouthttp

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

type detectResponse struct {
	Regions []rawRegion `json:"regions"`
}

type rawRegion struct {
	Type string          `json:"type"`
	BBox []float64       `json:"bbox"`
	Res  json.RawMessage `json:"res"`
}

// textLine is one recognized line inside a text-like or figure region.
type textLine struct {
	Text string `json:"text"`
}

// tableRes is the structure result of a table region.
type tableRes struct {
	HTML string `json:"html"`
}

func decodeRegions(body []byte, page image.Image, pad int) ([]layout.Region, error) {
	var resp detectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	regions := make([]layout.Region, 0, len(resp.Regions))
	for i, raw := range resp.Regions {
		t, ok := layout.ParseRegionType(raw.Type)
		if !ok {
			logx.WithFields(logx.Fields{"index": i, "type": raw.Type}).
				Debug("dropping region with unknown type")
			continue
		}
		box, err := toBBox(raw.BBox)
		if err != nil {
			logx.WithFields(logx.Fields{"index": i, "type": raw.Type}).WithError(err).
				Warn("dropping region with malformed bbox")
			continue
		}

		lines, html := parseRes(raw.Res)

		var crop image.Image
		if t == layout.RegionTable || t == layout.RegionFigure {
			crop = layout.Crop(page, box, pad)
		}
		regions = append(regions, layout.NewRegion(t, box, lines, html, crop))
	}
	return regions, nil
}

// maxCoord bounds coordinates so they stay well inside int range on every
// platform.
const maxCoord = 1 << 30

// toBBox rounds engine coordinates to the nearest pixel, clamped to
// [-maxCoord, maxCoord].
func toBBox(v []float64) (layout.BBox, error) {
	if len(v) != 4 {
		return layout.BBox{}, fmt.Errorf("bbox has %d values, want 4", len(v))
	}
	var c [4]int
	for i, f := range v {
		if math.IsNaN(f) {
			return layout.BBox{}, fmt.Errorf("bbox value %d is NaN", i)
		}
		c[i] = int(math.Round(max(-maxCoord, min(maxCoord, f))))
	}
	return layout.BBox{X1: c[0], Y1: c[1], X2: c[2], Y2: c[3]}, nil
}

// parseRes accepts both result shapes: a list of recognized lines, or an
// object holding table HTML. Anything else yields an empty payload.
func parseRes(raw json.RawMessage) ([]string, string) {
	if len(raw) == 0 {
		return nil, ""
	}

	var lines []textLine
	if err := json.Unmarshal(raw, &lines); err == nil {
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			out = append(out, l.Text)
		}
		return out, ""
	}

	var table tableRes
	if err := json.Unmarshal(raw, &table); err == nil {
		return nil, table.HTML
	}
	return nil, ""
}
