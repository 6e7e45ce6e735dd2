package csvexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"legalextract/internal/tabular"
)

const sheetName = "Extracted Data"

// EncodeXLSX renders t as a single-sheet workbook. Cells are written as text
// so values such as zip codes keep their leading zeros.
func EncodeXLSX(t *tabular.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, fmt.Errorf("locating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	write := func(col, row int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellStr(sheetName, cell, v)
	}

	for i, h := range t.Columns {
		if err := write(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			if err := write(c+1, r+2, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
