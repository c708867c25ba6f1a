package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"archivist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceRoot = filepath.Join(base, "archive")
	cfgVal.Paths.ProgressLog = filepath.Join(base, "state", "progress_log.csv")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Ledger.SQLitePath = filepath.Join(base, "state", "progress_log.db")
	cfgVal.Reconcile.SpreadsheetPath = filepath.Join(base, "edreporter.ods")
	cfgVal.Reconcile.MatchedOutput = filepath.Join(base, "reports", "matched.csv")
	cfgVal.Reconcile.UnmatchedOutput = filepath.Join(base, "reports", "unmatched.csv")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWordPress points the test config at a CMS base URL with dummy credentials.
func WithWordPress(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.WordPress.BaseURL = baseURL
		b.cfg.WordPress.Username = "editor"
		b.cfg.WordPress.AppPassword = "app-pass"
	}
}

// WithSQLiteLedger selects the SQLite ledger backend.
func WithSQLiteLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Backend = config.LedgerBackendSQLite
	}
}

// WithStubbedBinaries writes executables that print output to stdout and
// prepends them to PATH.
func WithStubbedBinaries(outputs map[string]string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		StubBinaries(b.t, binDir, outputs)
	}
}

// StubBinaries writes one shell script per entry into dir and prepends dir to
// PATH for the remainder of the test.
func StubBinaries(t testing.TB, dir string, outputs map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, output := range outputs {
		script := "#!/bin/sh\ncat <<'STUB_EOF'\n" + output + "\nSTUB_EOF\n"
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceRoot)
}
