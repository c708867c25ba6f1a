// Package ledger persists the append-only progress log of migration outcomes.
//
// Every decision about a catalog item (published, draft, skipped, or error)
// appends one Row. Nothing is ever rewritten; the done set is derived on read
// as the group keys with at least one published, draft, or skipped row, so an
// error row never hides an item from the next run.
//
// Two backends share the Store interface: the CSV file used by operators and
// spreadsheet tooling (the default), and a SQLite database for installations
// that prefer a queryable log. A file lock enforces a single writer per
// ledger.
package ledger
