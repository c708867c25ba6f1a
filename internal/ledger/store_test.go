package ledger_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"archivist/internal/ledger"
	"archivist/internal/testsupport"
)

type storeFactory struct {
	name string
	open func(t *testing.T) ledger.Store
}

func factories() []storeFactory {
	return []storeFactory{
		{"csv", func(t *testing.T) ledger.Store {
			return ledger.NewCSVStore(filepath.Join(t.TempDir(), "state", "progress_log.csv"))
		}},
		{"sqlite", func(t *testing.T) ledger.Store {
			store, err := ledger.OpenSQLite(filepath.Join(t.TempDir(), "state", "progress_log.db"))
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			return store
		}},
	}
}

func TestStoreDonePredicate(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.open(t)

			done, err := store.DoneSet(ctx)
			if err != nil {
				t.Fatalf("DoneSet on missing ledger: %v", err)
			}
			if len(done) != 0 {
				t.Fatalf("expected empty done set, got %v", done)
			}

			appendRow := func(key string, outcome ledger.Outcome) {
				t.Helper()
				if err := store.Append(ctx, ledger.Row{GroupKey: key, Outcome: outcome}); err != nil {
					t.Fatalf("Append %s/%s: %v", key, outcome, err)
				}
			}
			appendRow("PSC_2000_01_01", ledger.OutcomeError)
			appendRow("PSC_2000_02_01", ledger.OutcomeSkipped)
			appendRow("PSC_2000_03_01", ledger.OutcomeError)
			appendRow("PSC_2000_03_01", ledger.OutcomePublished)
			appendRow("PSC_2000_04_01", ledger.OutcomeDraft)
			appendRow("PSC_2000_04_01", ledger.OutcomeDraft)

			done, err = store.DoneSet(ctx)
			if err != nil {
				t.Fatalf("DoneSet: %v", err)
			}
			if done.Contains("PSC_2000_01_01") {
				t.Fatal("error row must not mark an item done")
			}
			for _, key := range []string{"PSC_2000_02_01", "PSC_2000_03_01", "PSC_2000_04_01"} {
				if !done.Contains(key) {
					t.Fatalf("expected %s to be done", key)
				}
			}
			if len(done) != 3 {
				t.Fatalf("expected 3 done keys, got %d", len(done))
			}
		})
	}
}

func TestStoreEnsureIsIdempotent(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.open(t)
			if err := store.Ensure(ctx); err != nil {
				t.Fatalf("Ensure: %v", err)
			}
			if err := store.Append(ctx, ledger.Row{GroupKey: "PSC_2001_01_01", Outcome: ledger.OutcomeSkipped}); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := store.Ensure(ctx); err != nil {
				t.Fatalf("second Ensure: %v", err)
			}
			rows, err := store.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("expected Ensure to keep existing rows, got %d", len(rows))
			}
		})
	}
}

func TestStoreRowRoundTrip(t *testing.T) {
	stamp := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	want := ledger.Row{
		Timestamp:      stamp,
		ContainerLabel: "2003",
		GroupKey:       "PSC_2003_05_07",
		HasPrimary:     true,
		HasSecondary:   false,
		DateParsed:     "2003-05-07",
		Title:          `Title, with "quotes"`,
		Outcome:        ledger.OutcomePublished,
		OCRUsed:        true,
		CleanupApplied: true,
		PostID:         321,
		PostURL:        "https://example.org/?p=321",
		AuthorSet:      true,
		ErrorMessage:   "",
	}
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.open(t)
			if err := store.Append(ctx, want); err != nil {
				t.Fatalf("Append: %v", err)
			}
			rows, err := store.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d", len(rows))
			}
			got := rows[0]
			if !got.Timestamp.Equal(want.Timestamp) {
				t.Fatalf("timestamp = %v, want %v", got.Timestamp, want.Timestamp)
			}
			got.Timestamp = want.Timestamp
			if got != want {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestStoreNormalizesCarriageReturns(t *testing.T) {
	in := ledger.Row{
		GroupKey:     "PSC_2003_05_07",
		Title:        "a\rb",
		Outcome:      ledger.OutcomeError,
		ErrorMessage: "HTTP 500: <html>\r\n<body>x</body>\r\n</html>",
	}
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.open(t)
			if err := store.Append(ctx, in); err != nil {
				t.Fatalf("Append: %v", err)
			}
			rows, err := store.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("expected 1 row, got %d", len(rows))
			}
			if got := rows[0].Title; got != "a\nb" {
				t.Fatalf("title = %q, want %q", got, "a\nb")
			}
			if got, want := rows[0].ErrorMessage, "HTTP 500: <html>\n<body>x</body>\n</html>"; got != want {
				t.Fatalf("error message = %q, want %q", got, want)
			}
			again, err := store.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows: %v", err)
			}
			if again[0] != rows[0] {
				t.Fatalf("second read differs:\n got %+v\nwant %+v", again[0], rows[0])
			}
		})
	}
}

func TestStoreDoneSetStableAcrossReads(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.open(t)
			for _, row := range []ledger.Row{
				{GroupKey: "PSC_2001_01_01", Outcome: ledger.OutcomePublished},
				{GroupKey: "PSC_2001_02_01", Outcome: ledger.OutcomeError},
				{GroupKey: "PSC_2001_03_01", Outcome: ledger.OutcomeDraft},
			} {
				if err := store.Append(ctx, row); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}
			first, err := store.DoneSet(ctx)
			if err != nil {
				t.Fatalf("DoneSet: %v", err)
			}
			second, err := store.DoneSet(ctx)
			if err != nil {
				t.Fatalf("DoneSet: %v", err)
			}
			if len(first) != 2 || len(first) != len(second) {
				t.Fatalf("done sets differ: %v vs %v", first, second)
			}
			for key := range first {
				if !second.Contains(key) {
					t.Fatalf("%s missing from second read: %v", key, second)
				}
			}
		})
	}
}

func TestStoreFillsZeroTimestamp(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.open(t)
			before := time.Now().Add(-time.Second)
			if err := store.Append(ctx, ledger.Row{GroupKey: "PSC_2002_02_02", Outcome: ledger.OutcomeSkipped}); err != nil {
				t.Fatalf("Append: %v", err)
			}
			rows, err := store.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows: %v", err)
			}
			if rows[0].Timestamp.Before(before) {
				t.Fatalf("expected current timestamp, got %v", rows[0].Timestamp)
			}
		})
	}
}

func TestCSVFileFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress_log.csv")
	store := ledger.NewCSVStore(path)
	row := ledger.Row{
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
		GroupKey:   "PSC_1999_01_02",
		HasPrimary: true,
		Outcome:    ledger.OutcomeDraft,
		PostID:     9,
	}
	if err := store.Append(ctx, row); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("\r\n")) {
		t.Fatalf("expected CRLF record terminators, got %q", data)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse ledger: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(ledger.Header, ",") {
		t.Fatalf("unexpected header %v", records[0])
	}
	wantRow := []string{"2024-01-02 03:04:05", "", "PSC_1999_01_02", "True", "False", "", "", "draft", "False", "False", "9", "", "False", ""}
	if strings.Join(records[1], "|") != strings.Join(wantRow, "|") {
		t.Fatalf("unexpected row\n got %v\nwant %v", records[1], wantRow)
	}
}

func TestCSVSkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress_log.csv")
	content := strings.Join(ledger.Header, ",") + "\n" +
		"2024-01-01 00:00:00,2000,PSC_2000_01_01,True,False,2000-01-01,T,published,False,False,1,u,False,\n" +
		"short,row\n" +
		"2024-01-01 00:00:00,2000,PSC_2000_02_01,True,False,2000-02-01,T,skipped,False,False,,,False,\n"
	testsupport.WriteFile(t, path, content)

	store := ledger.NewCSVStore(path)
	done, err := store.DoneSet(ctx)
	if err != nil {
		t.Fatalf("DoneSet: %v", err)
	}
	if len(done) != 2 || !done.Contains("PSC_2000_01_01") || !done.Contains("PSC_2000_02_01") {
		t.Fatalf("unexpected done set %v", done)
	}
}

func TestCSVReadsReorderedColumns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress_log.csv")
	testsupport.WriteFile(t, path, "status,basename\nskipped,PSC_1980_01_01\n")

	done, err := ledger.NewCSVStore(path).DoneSet(ctx)
	if err != nil {
		t.Fatalf("DoneSet: %v", err)
	}
	if !done.Contains("PSC_1980_01_01") {
		t.Fatalf("expected header-driven lookup, got %v", done)
	}
}

func TestEnsureCSVNeverTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress_log.csv")
	testsupport.WriteFile(t, path, "existing\n")
	if err := ledger.EnsureCSV(path); err != nil {
		t.Fatalf("EnsureCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "existing\n" {
		t.Fatalf("EnsureCSV modified file: %q", data)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSQLiteLedger())
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*ledger.SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}

	cfg = testsupport.NewConfig(t)
	store, err = ledger.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Path() != cfg.Paths.ProgressLog {
		t.Fatalf("unexpected csv path %q", store.Path())
	}
}

func TestExportWritesAllRows(t *testing.T) {
	ctx := context.Background()
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			store := f.open(t)
			for _, outcome := range []ledger.Outcome{ledger.OutcomeError, ledger.OutcomePublished} {
				if err := store.Append(ctx, ledger.Row{GroupKey: "PSC_2005_05_05", Outcome: outcome}); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}
			var buf bytes.Buffer
			n, err := ledger.Export(ctx, store, &buf)
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if n != 2 {
				t.Fatalf("expected 2 exported rows, got %d", n)
			}
			records, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("parse export: %v", err)
			}
			if len(records) != 3 || records[1][7] != "error" || records[2][7] != "published" {
				t.Fatalf("unexpected export %v", records)
			}
		})
	}
}

func TestWriterLockRejectsSecondWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress_log.csv")
	first, err := ledger.AcquireWriter(path)
	if err != nil {
		t.Fatalf("AcquireWriter: %v", err)
	}
	if _, err := ledger.AcquireWriter(path); !errors.Is(err, ledger.ErrLedgerBusy) {
		t.Fatalf("expected ErrLedgerBusy, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := ledger.AcquireWriter(path)
	if err != nil {
		t.Fatalf("expected lock to be free after release: %v", err)
	}
	_ = second.Release()
}
