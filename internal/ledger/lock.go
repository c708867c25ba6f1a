package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLedgerBusy reports that another process holds the ledger writer lock.
var ErrLedgerBusy = errors.New("ledger is in use by another archivist session")

// WriterLock guards a ledger against concurrent writers across processes.
type WriterLock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for the ledger at path.
func LockPath(path string) string {
	return path + ".lock"
}

// AcquireWriter takes the writer lock for the ledger at path without waiting.
func AcquireWriter(path string) (*WriterLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLedgerBusy, lock.Path())
	}
	return &WriterLock{lock: lock}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *WriterLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release ledger lock: %w", err)
	}
	return nil
}
