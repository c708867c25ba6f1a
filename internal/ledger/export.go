package ledger

import (
	"context"
	"fmt"
	"io"
)

// Export writes the ledger header and every row to w as CSV, regardless of
// backend.
func Export(ctx context.Context, store Store, w io.Writer) (int, error) {
	rows, err := store.Rows(ctx)
	if err != nil {
		return 0, err
	}
	writer := newCSVWriter(w)
	if err := writer.Write(Header); err != nil {
		return 0, fmt.Errorf("write export header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return 0, fmt.Errorf("write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush export: %w", err)
	}
	return len(rows), nil
}
