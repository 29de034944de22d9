package sheet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Abraxas-365/docextract/pkg/errx"
)

const spanned = `<html><body><table>
<thead><tr><th colspan="2">Region</th><th>Total</th></tr></thead>
<tbody>
<tr><td rowspan="2">North</td><td>Q1</td><td>10</td></tr>
<tr><td>Q2</td><td>12.5</td></tr>
<tr><td>South<script>alert(1)</script></td><td style="color:red">Q1</td><td>7</td></tr>
</tbody></table></body></html>`

func TestParseResolvesSpans(t *testing.T) {
	tbl, err := Parse(spanned)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Rows != 4 || tbl.Cols != 3 {
		t.Fatalf("grid = %dx%d, want 4x3", tbl.Rows, tbl.Cols)
	}

	byPos := map[[2]int]Cell{}
	for _, c := range tbl.Cells {
		byPos[[2]int{c.Row, c.Col}] = c
	}

	if h := byPos[[2]int{0, 0}]; !h.Header || h.ColSpan != 2 || h.Text != "Region" {
		t.Fatalf("header = %+v", h)
	}
	if c := byPos[[2]int{2, 1}]; c.Text != "Q2" {
		t.Fatalf("rowspan not respected, (2,1) = %+v", c)
	}
	if c := byPos[[2]int{3, 0}]; c.Text != "South" {
		t.Fatalf("script content leaked: %q", c.Text)
	}
}

func TestParseBoundsHugeSpans(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table>")
	for range 200 {
		b.WriteString(`<tr><td rowspan="1000" colspan="1000">x</td></tr>`)
	}
	b.WriteString("</table>")

	tbl, err := Parse(b.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Cells) != 200 {
		t.Fatalf("cells = %d, want 200", len(tbl.Cells))
	}
	if tbl.Rows != 200 {
		t.Fatalf("rows = %d, want rowspans clamped to 200", tbl.Rows)
	}
	area := 0
	for _, c := range tbl.Cells {
		if c.Row+c.RowSpan > tbl.Rows {
			t.Fatalf("cell %+v spans past the last row", c)
		}
		area += c.RowSpan * c.ColSpan
	}
	if area > maxSpanArea {
		t.Fatalf("span area = %d, want <= %d", area, maxSpanArea)
	}
}

func TestParseRejectsMarkupWithoutTable(t *testing.T) {
	_, err := Parse("<p>no table here</p>")
	if !errx.HasCode(err, ErrNoTable) {
		t.Fatalf("expected NO_TABLE, got %v", err)
	}
}

func TestConvertWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "t.html")
	dst := filepath.Join(dir, "t.xlsx")
	if err := os.WriteFile(src, []byte(spanned), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := NewConverter().Convert(context.Background(), src, dst); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	f, err := excelize.OpenFile(dst)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if v, _ := f.GetCellValue(sheet, "A1"); v != "Region" {
		t.Fatalf("A1 = %q", v)
	}
	if v, _ := f.GetCellValue(sheet, "C3"); v != "12.5" {
		t.Fatalf("C3 = %q", v)
	}
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged ranges, got %d", len(merged))
	}
}

func TestConvertMissingSource(t *testing.T) {
	err := NewConverter().Convert(context.Background(), filepath.Join(t.TempDir(), "nope.html"), "out.xlsx")
	if !errx.HasCode(err, ErrReadMarkup) {
		t.Fatalf("expected READ_MARKUP, got %v", err)
	}
}

func TestCellValue(t *testing.T) {
	if v, ok := cellValue("42").(int64); !ok || v != 42 {
		t.Fatalf("int cell = %#v", cellValue("42"))
	}
	if v, ok := cellValue("3.5").(float64); !ok || v != 3.5 {
		t.Fatalf("float cell = %#v", cellValue("3.5"))
	}
	if v, ok := cellValue("12 kg").(string); !ok || v != "12 kg" {
		t.Fatalf("text cell = %#v", cellValue("12 kg"))
	}
}
