package reconcile

import (
	"errors"
	"fmt"

	"archivist/internal/sheet"
)

// ErrTooFewColumns reports a spreadsheet narrower than the configured key
// columns. Issues can still be built; missing cells read as empty.
var ErrTooFewColumns = errors.New("spreadsheet has fewer columns than expected")

// Columns are zero-based positions of the key columns.
type Columns struct {
	Year  int
	Month int
	Link  int
}

// DefaultColumns reads year from A, month from B and the link from I.
var DefaultColumns = Columns{Year: 0, Month: 1, Link: 8}

// Check reports ErrTooFewColumns when width cannot hold every key column.
func (c Columns) Check(width int) error {
	need := max(c.Year, c.Month, c.Link) + 1
	if width < need {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewColumns, width, need)
	}
	return nil
}

// IssuesFromTable lifts the key columns out of every data row.
func IssuesFromTable(table sheet.Table, cols Columns) []Issue {
	issues := make([]Issue, 0, len(table.Rows))
	for _, row := range table.Rows {
		issues = append(issues, Issue{
			Year:  cell(row, cols.Year),
			Month: cell(row, cols.Month),
			Link:  cell(row, cols.Link),
			Cells: row,
		})
	}
	return issues
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
