package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses the first sheet of an Excel workbook.
func ReadXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrNoTable
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	rows := make([][]string, 0, len(raw))
	for _, row := range raw {
		row = trimTrailingBlank(row)
		if blankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return FromRows(rows)
}
