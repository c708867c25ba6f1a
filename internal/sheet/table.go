package sheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRows reports a spreadsheet with no non-empty rows.
	ErrNoRows = errors.New("spreadsheet has no rows")
	// ErrNoTable reports a workbook without any table or sheet.
	ErrNoTable = errors.New("spreadsheet has no table")
	// ErrTooLarge reports repeat attributes that expand past the read limits.
	ErrTooLarge = errors.New("spreadsheet too large")
)

// Table is a header row plus data rows. Every row has exactly len(Headers)
// cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Width returns the number of columns.
func (t Table) Width() int { return len(t.Headers) }

// Record maps the headers of row i to its cells.
func (t Table) Record(i int) map[string]string {
	out := make(map[string]string, len(t.Headers))
	for col, header := range t.Headers {
		out[header] = t.Rows[i][col]
	}
	return out
}

// FromRows builds a table whose first row supplies headers. Rows are padded to
// the widest row.
func FromRows(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrNoRows
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	table := Table{Headers: buildHeaders(rows[0], width)}
	table.Rows = make([][]string, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		padded := make([]string, width)
		copy(padded, raw)
		table.Rows = append(table.Rows, padded)
	}
	return table, nil
}

func buildHeaders(headerRow []string, width int) []string {
	headers := make([]string, 0, width)
	seen := make(map[string]struct{}, width)
	for idx := 0; idx < width; idx++ {
		base := ""
		if idx < len(headerRow) {
			base = strings.TrimSpace(headerRow[idx])
		}
		if base == "" {
			base = "Col" + ColumnLetters(idx)
		}
		name := base
		for suffix := 2; ; suffix++ {
			if _, dup := seen[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", base, suffix)
		}
		seen[name] = struct{}{}
		headers = append(headers, name)
	}
	return headers
}

// ColumnLetters converts a zero-based column index to spreadsheet letters:
// 0 is A, 25 is Z, 26 is AA.
func ColumnLetters(idx int) string {
	if idx < 0 {
		return ""
	}
	var buf []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimTrailingBlank(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}
