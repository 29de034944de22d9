package extract

import "github.com/Abraxas-365/docextract/pkg/layout"

// TextRecord is one assembled text region.
type TextRecord struct {
	PageNumber int    `json:"page_number"`
	Order      int    `json:"order"`
	Content    string `json:"content"`
}

// TableRecord links the spreadsheet and crop of one table region. A nil
// link means the artifact is unavailable.
type TableRecord struct {
	PageNumber  int     `json:"page_number"`
	Order       int     `json:"order"`
	ContentLink *string `json:"content_link"`
	ImageLink   *string `json:"image_link"`
}

// ImageRecord holds the figure links of one page.
type ImageRecord struct {
	PageNumber int      `json:"page_number"`
	Images     []string `json:"images"`
}

// CoordinateRecord is the box of a table or figure region.
type CoordinateRecord struct {
	PageNumber int               `json:"page_number"`
	Type       layout.RegionType `json:"type"`
	BBox       [4]int            `json:"bbox"`
}

// Failure records a condition that dropped or degraded part of the result.
// PageNumber and Order are -1 when they do not apply.
type Failure struct {
	PageNumber int               `json:"page_number"`
	RegionType layout.RegionType `json:"region_type,omitempty"`
	Order      int               `json:"order"`
	Stage      string            `json:"stage"`
	Code       string            `json:"code"`
	Reason     string            `json:"reason"`
}

// Failure stages.
const (
	StageSource       = "source"
	StageRender       = "render"
	StageEngine       = "engine"
	StageTableMarkup  = "table_markup"
	StageTableConvert = "table_convert"
	StageTablePersist = "table_persist"
	StageTableImage   = "table_image"
	StageFigure       = "figure"
)

// Aggregate is the result of one Handle call.
type Aggregate struct {
	RunID           string               `json:"run_id"`
	PageCount       int                  `json:"page_count"`
	Texts           []TextRecord         `json:"texts"`
	Tables          []TableRecord        `json:"tables"`
	Images          []ImageRecord        `json:"images"`
	RectCoordinates [][]CoordinateRecord `json:"rect_coordinates"`
	Failures        []Failure            `json:"failures"`
}

func newAggregate(runID string) Aggregate {
	return Aggregate{
		RunID:           runID,
		Texts:           []TextRecord{},
		Tables:          []TableRecord{},
		Images:          []ImageRecord{},
		RectCoordinates: [][]CoordinateRecord{},
		Failures:        []Failure{},
	}
}

// Degraded reports whether any failure was recorded.
func (a Aggregate) Degraded() bool {
	return len(a.Failures) > 0
}

// pageResult buffers one page's output until the page completes.
type pageResult struct {
	texts    []TextRecord
	tables   []TableRecord
	images   []string
	coords   []CoordinateRecord
	failures []Failure
}

func (a *Aggregate) merge(page int, r *pageResult) {
	a.Texts = append(a.Texts, r.texts...)
	a.Tables = append(a.Tables, r.tables...)
	if len(r.images) > 0 {
		a.Images = append(a.Images, ImageRecord{PageNumber: page, Images: r.images})
	}
	if len(r.coords) > 0 {
		a.RectCoordinates = append(a.RectCoordinates, r.coords)
	}
	a.Failures = append(a.Failures, r.failures...)
}
