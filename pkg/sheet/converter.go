package sheet

import (
	"context"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Converter writes table markup files out as xlsx workbooks.
type Converter struct {
	// SheetName names the single worksheet. Defaults to "Sheet1".
	SheetName string
}

// NewConverter returns a converter with default settings.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert reads the markup at srcPath and writes a workbook to dstPath.
func (c *Converter) Convert(ctx context.Context, srcPath, dstPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return sheetErrors.NewWithCause(ErrReadMarkup, err).WithDetail("path", srcPath)
	}

	t, err := Parse(string(data))
	if err != nil {
		return err
	}
	return c.Write(t, dstPath)
}

// Write stores t as a workbook at path.
func (c *Converter) Write(t *Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if c.SheetName != "" && c.SheetName != sheet {
		if err := f.SetSheetName(sheet, c.SheetName); err != nil {
			return sheetErrors.NewWithCause(ErrWrite, err)
		}
		sheet = c.SheetName
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return sheetErrors.NewWithCause(ErrWrite, err)
	}

	for _, cell := range t.Cells {
		topLeft, err := excelize.CoordinatesToCellName(cell.Col+1, cell.Row+1)
		if err != nil {
			return sheetErrors.NewWithCause(ErrWrite, err)
		}
		if err := f.SetCellValue(sheet, topLeft, cellValue(cell.Text)); err != nil {
			return sheetErrors.NewWithCause(ErrWrite, err).WithDetail("cell", topLeft)
		}

		bottomRight := topLeft
		if cell.RowSpan > 1 || cell.ColSpan > 1 {
			bottomRight, err = excelize.CoordinatesToCellName(cell.Col+cell.ColSpan, cell.Row+cell.RowSpan)
			if err != nil {
				return sheetErrors.NewWithCause(ErrWrite, err)
			}
			if err := f.MergeCell(sheet, topLeft, bottomRight); err != nil {
				return sheetErrors.NewWithCause(ErrWrite, err).WithDetail("cell", topLeft)
			}
		}
		if cell.Header {
			if err := f.SetCellStyle(sheet, topLeft, bottomRight, headerStyle); err != nil {
				return sheetErrors.NewWithCause(ErrWrite, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return sheetErrors.NewWithCause(ErrWrite, err).WithDetail("path", path)
	}
	return nil
}

// cellValue stores numeric text as numbers so spreadsheet formulas work on
// the extracted table.
func cellValue(s string) any {
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
