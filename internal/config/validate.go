package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLedger(); err != nil {
		return err
	}
	if err := c.validateWordPress(); err != nil {
		return err
	}
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// SourceReady reports whether the archive root is configured. Catalog commands
// call it; reconciliation does not need a source tree.
func (c *Config) SourceReady() error {
	if strings.TrimSpace(c.Paths.SourceRoot) == "" {
		return errors.New("paths.source_root is required. Set SOURCE_ROOT or edit the config file")
	}
	return nil
}

// WordPressReady reports whether CMS credentials are present. Only commands
// that talk to the CMS call it so offline commands keep working.
func (c *Config) WordPressReady() error {
	wp := c.WordPress
	var missing []string
	if wp.BaseURL == "" {
		missing = append(missing, "WP_BASE")
	}
	if wp.Username == "" {
		missing = append(missing, "WP_USERNAME")
	}
	if wp.AppPassword == "" {
		missing = append(missing, "WP_APP_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s in environment or wordpress config section", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) validateLedger() error {
	switch c.Ledger.Backend {
	case LedgerBackendCSV, LedgerBackendSQLite:
		return nil
	default:
		return fmt.Errorf("ledger.backend: unsupported value %q (want csv or sqlite)", c.Ledger.Backend)
	}
}

func (c *Config) validateWordPress() error {
	wp := c.WordPress
	switch wp.CategoryPolicy {
	case CategoryPolicyFixed:
		if wp.CategoryID < 0 {
			return errors.New("wordpress.category_id must be zero or positive")
		}
	case CategoryPolicySearchOrCreate:
		if wp.CategoryName == "" {
			return errors.New("wordpress.category_name must be set when category_policy is search-or-create")
		}
	default:
		return fmt.Errorf("wordpress.category_policy: unsupported value %q", wp.CategoryPolicy)
	}
	if wp.BaseURL != "" {
		parsed, err := url.Parse(wp.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("wordpress.base_url %q must be an absolute URL", wp.BaseURL)
		}
	}
	if wp.FeaturedMediaID < 0 {
		return errors.New("wordpress.featured_media_id must be zero or positive")
	}
	return nil
}

func (c *Config) validateExtract() error {
	for name, cmd := range map[string][]string{
		"extract.pdf_command":  c.Extract.PDFCommand,
		"extract.docx_command": c.Extract.DOCXCommand,
		"extract.ocr_command":  c.Extract.OCRCommand,
	} {
		if len(cmd) > 0 && strings.TrimSpace(cmd[0]) == "" {
			return fmt.Errorf("%s: executable must not be blank", name)
		}
	}
	return nil
}

func (c *Config) validateReconcile() error {
	r := c.Reconcile
	if r.YearColumn < 0 || r.MonthColumn < 0 || r.LinkColumn < 0 {
		return errors.New("reconcile column positions must be zero or positive")
	}
	if r.MatchedOutput == r.UnmatchedOutput {
		return errors.New("reconcile.matched_output and reconcile.unmatched_output must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
