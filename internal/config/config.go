package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the archive root and progress ledger locations.
type Paths struct {
	SourceRoot  string `toml:"source_root"`
	ProgressLog string `toml:"progress_log"`
	LogDir      string `toml:"log_dir"`
}

// Catalog contains the filename convention used when scanning the archive.
type Catalog struct {
	Prefix string `toml:"prefix"`
}

// Ledger selects the progress ledger backend.
type Ledger struct {
	Backend    string `toml:"backend"`     // "csv" (default) or "sqlite"
	SQLitePath string `toml:"sqlite_path"` // Default: progress_log with a .db extension
}

// WordPress contains connection and publishing settings for the remote CMS.
type WordPress struct {
	BaseURL              string `toml:"base_url"`
	Username             string `toml:"username"`
	AppPassword          string `toml:"app_password"`
	AuthorName           string `toml:"author_name"`
	AuthorFallbackHandle string `toml:"author_fallback_handle"`
	CategoryPolicy       string `toml:"category_policy"`
	CategoryID           int64  `toml:"category_id"`
	CategoryName         string `toml:"category_name"`
	CategorySlug         string `toml:"category_slug"`
	FeaturedMediaID      int64  `toml:"featured_media_id"`
	UserAgent            string `toml:"user_agent"`
	LookupTimeoutSeconds int    `toml:"lookup_timeout_seconds"`
	WriteTimeoutSeconds  int    `toml:"write_timeout_seconds"`
}

// Extract contains the external commands used to produce plain text. The
// literal token {path} is replaced with the document path.
type Extract struct {
	PDFCommand     []string `toml:"pdf_command"`
	DOCXCommand    []string `toml:"docx_command"`
	OCRCommand     []string `toml:"ocr_command"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Reconcile contains the batch matching inputs and report destinations.
type Reconcile struct {
	SpreadsheetPath string `toml:"spreadsheet_path"`
	CategorySlug    string `toml:"category_slug"`
	Status          string `toml:"status"`
	YearColumn      int    `toml:"year_column"`
	MonthColumn     int    `toml:"month_column"`
	LinkColumn      int    `toml:"link_column"`
	MatchedOutput   string `toml:"matched_output"`
	UnmatchedOutput string `toml:"unmatched_output"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for archivist.
//
// Configuration sections by subsystem:
//   - Paths: archive root, progress ledger, optional log directory
//   - Catalog: filename prefix convention
//   - Ledger: csv or sqlite backend
//   - WordPress: CMS credentials, author/category policy, timeouts
//   - Extract: external text extraction commands
//   - Reconcile: spreadsheet input, column positions, report outputs
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Catalog   Catalog   `toml:"catalog"`
	Ledger    Ledger    `toml:"ledger"`
	WordPress WordPress `toml:"wordpress"`
	Extract   Extract   `toml:"extract"`
	Reconcile Reconcile `toml:"reconcile"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/archivist/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	env, err := readDotEnv(dotEnvFile)
	if err != nil {
		return nil, "", false, err
	}
	cfg.applyEnv(env)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("archivist.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the ledger and log files live in.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.ProgressLog)}
	if c.Ledger.Backend == LedgerBackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Ledger.SQLitePath))
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the file backing the configured ledger backend.
func (c *Config) LedgerPath() string {
	if c.Ledger.Backend == LedgerBackendSQLite {
		return c.Ledger.SQLitePath
	}
	return c.Paths.ProgressLog
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
