package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "SIREN"

// WriteXLSX writes rows to an Excel workbook with a bold header row. Codes
// are stored as text so leading zeros survive.
func WriteXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	for i, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, r := range rows {
		row := i + 2
		for col, v := range r.record() {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStr(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}
	for _, w := range []struct {
		col   string
		width float64
	}{{"A", 14}, {"B", 12}, {"C", 28}} {
		if err := f.SetColWidth(sheetName, w.col, w.col, w.width); err != nil {
			return fmt.Errorf("set width %s: %w", w.col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
