package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"archivist/internal/config"
)

var wordpressEnv = []string{
	"SOURCE_ROOT", "PROGRESS_LOG", "WP_BASE", "WP_USERNAME", "WP_APP_PASSWORD",
	"WP_AUTHOR_NAME", "WP_CATEGORY_ID", "WP_CATEGORY_NAME", "WP_CATEGORY_SLUG",
	"WP_FEATURED_IMAGE_ID",
}

// isolate points HOME and the working directory at fresh temp dirs and blanks
// every environment fallback so host settings cannot leak into assertions.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range wordpressEnv {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	dir := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.ProgressLog != filepath.Join(dir, "progress_log.csv") {
		t.Fatalf("unexpected progress log: %q", cfg.Paths.ProgressLog)
	}
	if cfg.Ledger.Backend != config.LedgerBackendCSV {
		t.Fatalf("expected csv backend, got %q", cfg.Ledger.Backend)
	}
	if cfg.Ledger.SQLitePath != filepath.Join(dir, "progress_log.db") {
		t.Fatalf("unexpected sqlite path: %q", cfg.Ledger.SQLitePath)
	}
	if cfg.WordPress.CategoryPolicy != config.CategoryPolicyFixed || cfg.WordPress.CategoryID != 72 {
		t.Fatalf("unexpected category defaults: %+v", cfg.WordPress)
	}
	if cfg.WordPress.LookupTimeoutSeconds != 30 || cfg.WordPress.WriteTimeoutSeconds != 45 {
		t.Fatalf("unexpected timeouts: %+v", cfg.WordPress)
	}
	if cfg.Reconcile.LinkColumn != 8 || cfg.Reconcile.MonthColumn != 1 || cfg.Reconcile.YearColumn != 0 {
		t.Fatalf("unexpected column defaults: %+v", cfg.Reconcile)
	}
	if cfg.Catalog.Prefix != "PSC" {
		t.Fatalf("unexpected prefix: %q", cfg.Catalog.Prefix)
	}
	if err := cfg.SourceReady(); err == nil {
		t.Fatal("expected SourceReady to fail without source root")
	}
	if err := cfg.WordPressReady(); err == nil {
		t.Fatal("expected WordPressReady to fail without credentials")
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "archivist.toml")

	type payload struct {
		Paths struct {
			SourceRoot string `toml:"source_root"`
		} `toml:"paths"`
		Ledger struct {
			Backend string `toml:"backend"`
		} `toml:"ledger"`
		WordPress struct {
			BaseURL        string `toml:"base_url"`
			CategoryPolicy string `toml:"category_policy"`
			CategoryName   string `toml:"category_name"`
		} `toml:"wordpress"`
	}
	custom := payload{}
	custom.Paths.SourceRoot = "archive"
	custom.Ledger.Backend = "SQLite"
	custom.WordPress.BaseURL = "https://example.org/"
	custom.WordPress.CategoryPolicy = "search-or-create"
	custom.WordPress.CategoryName = "Columns"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.SourceRoot != filepath.Join(dir, "archive") {
		t.Fatalf("expected source root to be expanded, got %q", cfg.Paths.SourceRoot)
	}
	if cfg.Ledger.Backend != config.LedgerBackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Ledger.Backend)
	}
	if cfg.LedgerPath() != cfg.Ledger.SQLitePath {
		t.Fatalf("expected ledger path to follow sqlite backend, got %q", cfg.LedgerPath())
	}
	if cfg.WordPress.BaseURL != "https://example.org" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.WordPress.BaseURL)
	}
	if cfg.WordPress.CategoryPolicy != config.CategoryPolicySearchOrCreate {
		t.Fatalf("unexpected policy: %q", cfg.WordPress.CategoryPolicy)
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "archivist.toml")
	content := "[wordpress]\nbase_url = \"https://file.example\"\nusername = \"file-user\"\ncategory_id = 9\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("WP_BASE", "https://env.example/")
	t.Setenv("WP_USERNAME", "env-user")
	t.Setenv("WP_APP_PASSWORD", "env-pass")
	t.Setenv("WP_CATEGORY_ID", "101")
	t.Setenv("WP_FEATURED_IMAGE_ID", "not-a-number")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WordPress.BaseURL != "https://env.example" {
		t.Fatalf("expected env base url, got %q", cfg.WordPress.BaseURL)
	}
	if cfg.WordPress.Username != "env-user" || cfg.WordPress.AppPassword != "env-pass" {
		t.Fatalf("expected env credentials, got %+v", cfg.WordPress)
	}
	if cfg.WordPress.CategoryID != 101 {
		t.Fatalf("expected env category id, got %d", cfg.WordPress.CategoryID)
	}
	if cfg.WordPress.FeaturedMediaID != 0 {
		t.Fatalf("expected unparsable featured id to be ignored, got %d", cfg.WordPress.FeaturedMediaID)
	}
	if err := cfg.WordPressReady(); err != nil {
		t.Fatalf("expected credentials to be complete: %v", err)
	}
}

func TestDotEnvFillsUnsetVariables(t *testing.T) {
	dir := isolate(t)
	dotenv := "SOURCE_ROOT=columns\nWP_AUTHOR_NAME=Jane Doe\nWP_USERNAME=dotenv-user\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("WP_USERNAME", "process-user")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.SourceRoot != filepath.Join(dir, "columns") {
		t.Fatalf("expected source root from .env, got %q", cfg.Paths.SourceRoot)
	}
	if cfg.WordPress.AuthorName != "Jane Doe" {
		t.Fatalf("expected author from .env, got %q", cfg.WordPress.AuthorName)
	}
	if cfg.WordPress.Username != "process-user" {
		t.Fatalf("expected process env to win over .env, got %q", cfg.WordPress.Username)
	}
	if _, ok := os.LookupEnv("WP_AUTHOR_NAME"); ok && os.Getenv("WP_AUTHOR_NAME") != "" {
		t.Fatal("expected .env values not to leak into the process environment")
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Ledger.Backend = "xml" }, "ledger.backend"},
		{"policy", func(c *config.Config) { c.WordPress.CategoryPolicy = "guess" }, "category_policy"},
		{"search needs name", func(c *config.Config) {
			c.WordPress.CategoryPolicy = config.CategoryPolicySearchOrCreate
			c.WordPress.CategoryName = ""
		}, "category_name"},
		{"relative base", func(c *config.Config) { c.WordPress.BaseURL = "example.org" }, "absolute URL"},
		{"columns", func(c *config.Config) { c.Reconcile.LinkColumn = -1 }, "column positions"},
		{"outputs", func(c *config.Config) { c.Reconcile.UnmatchedOutput = c.Reconcile.MatchedOutput }, "must differ"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"blank executable", func(c *config.Config) { c.Extract.OCRCommand = []string{" "} }, "ocr_command"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.WordPress.AuthorFallbackHandle != "phyllis-wp" {
		t.Fatalf("unexpected fallback handle: %q", cfg.WordPress.AuthorFallbackHandle)
	}
	if len(cfg.Extract.PDFCommand) == 0 || cfg.Extract.PDFCommand[0] != "pdftotext" {
		t.Fatalf("unexpected pdf command: %v", cfg.Extract.PDFCommand)
	}
}

func TestEnsureDirectoriesCreatesLedgerParent(t *testing.T) {
	dir := isolate(t)
	cfg := config.Default()
	cfg.Paths.ProgressLog = filepath.Join(dir, "state", "progress.csv")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, want := range []string{filepath.Join(dir, "state"), cfg.Paths.LogDir} {
		info, err := os.Stat(want)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", want, err)
		}
	}
}
