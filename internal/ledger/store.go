package ledger

import (
	"context"
	"fmt"
	"time"

	"archivist/internal/config"
)

// Store is the progress ledger. Implementations only append.
type Store interface {
	// Ensure creates the backing file or schema if absent. Existing content is
	// never truncated.
	Ensure(ctx context.Context) error
	// Append records one row. A zero Timestamp is filled with the current
	// local time.
	Append(ctx context.Context, row Row) error
	// DoneSet returns group keys with at least one published, draft, or
	// skipped row. A missing ledger yields an empty set.
	DoneSet(ctx context.Context) (DoneSet, error)
	// Rows returns every readable row in append order.
	Rows(ctx context.Context) ([]Row, error)
	// Path is the file backing the ledger.
	Path() string
	Close() error
}

// Open returns the store selected by cfg.Ledger.Backend without creating
// anything on disk.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Ledger.Backend {
	case config.LedgerBackendSQLite:
		return OpenSQLite(cfg.Ledger.SQLitePath)
	case config.LedgerBackendCSV, "":
		return NewCSVStore(cfg.Paths.ProgressLog), nil
	default:
		return nil, fmt.Errorf("ledger backend %q not supported", cfg.Ledger.Backend)
	}
}

// doneFromRows applies the done predicate to rows.
func doneFromRows(rows []Row) DoneSet {
	done := make(DoneSet)
	for _, row := range rows {
		if row.Outcome.Done() {
			done[row.GroupKey] = struct{}{}
		}
	}
	return done
}

var now = time.Now
