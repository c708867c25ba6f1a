package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// CSVStore keeps the ledger as a CSV file with a fixed header.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore returns a store for path. The file is created lazily.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// EnsureCSV creates path with the ledger header if it does not exist.
func EnsureCSV(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat ledger: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create ledger: %w", err)
	}
	w := newCSVWriter(file)
	if err := w.Write(Header); err != nil {
		_ = file.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	return file.Close()
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) Ensure(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EnsureCSV(s.path)
}

func (s *CSVStore) Append(_ context.Context, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := EnsureCSV(s.path); err != nil {
		return err
	}
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	w := newCSVWriter(file)
	if err := w.Write(row.canonical(now).Record()); err != nil {
		_ = file.Close()
		return fmt.Errorf("append ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("append ledger row: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync ledger: %w", err)
	}
	return file.Close()
}

func (s *CSVStore) DoneSet(ctx context.Context) (DoneSet, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return doneFromRows(rows), nil
}

// Rows reads the file header-first. Records that cannot be parsed, or that
// lack the basename or status columns, are skipped.
func (s *CSVStore) Rows(context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()
	return readRows(file)
}

func readRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	cols := newColumns(header)

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return rows, fmt.Errorf("read ledger: %w", err)
		}
		if row, ok := cols.parseRecord(record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// newCSVWriter terminates records with CRLF so rows appended here match
// ledgers written by earlier tooling.
func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}
