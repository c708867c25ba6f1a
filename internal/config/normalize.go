package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeWordPress()
	c.normalizeExtract()
	if err := c.normalizeReconcile(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceRoot, err = expandPath(strings.TrimSpace(c.Paths.SourceRoot)); err != nil {
		return fmt.Errorf("paths.source_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProgressLog) == "" {
		c.Paths.ProgressLog = defaultProgressLog
	}
	if c.Paths.ProgressLog, err = expandPath(strings.TrimSpace(c.Paths.ProgressLog)); err != nil {
		return fmt.Errorf("paths.progress_log: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	c.Ledger.Backend = strings.ToLower(strings.TrimSpace(c.Ledger.Backend))
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = defaultLedgerBackend
	}
	sqlitePath := strings.TrimSpace(c.Ledger.SQLitePath)
	if sqlitePath == "" {
		sqlitePath = strings.TrimSuffix(c.Paths.ProgressLog, filepath.Ext(c.Paths.ProgressLog)) + ".db"
	}
	var err error
	if c.Ledger.SQLitePath, err = expandPath(sqlitePath); err != nil {
		return fmt.Errorf("ledger.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Prefix = strings.TrimSuffix(strings.TrimSpace(c.Catalog.Prefix), "_")
	if c.Catalog.Prefix == "" {
		c.Catalog.Prefix = defaultCatalogPrefix
	}
}

func (c *Config) normalizeWordPress() {
	wp := &c.WordPress
	wp.BaseURL = strings.TrimRight(strings.TrimSpace(wp.BaseURL), "/")
	wp.Username = strings.TrimSpace(wp.Username)
	wp.AppPassword = strings.TrimSpace(wp.AppPassword)
	wp.AuthorName = strings.TrimSpace(wp.AuthorName)
	wp.AuthorFallbackHandle = strings.TrimSpace(wp.AuthorFallbackHandle)
	wp.CategoryPolicy = strings.ToLower(strings.TrimSpace(wp.CategoryPolicy))
	if wp.CategoryPolicy == "" {
		wp.CategoryPolicy = defaultCategoryPolicy
	}
	wp.CategoryName = strings.TrimSpace(wp.CategoryName)
	wp.CategorySlug = strings.TrimSpace(wp.CategorySlug)
	if strings.TrimSpace(wp.UserAgent) == "" {
		wp.UserAgent = defaultUserAgent
	}
	if wp.LookupTimeoutSeconds <= 0 {
		wp.LookupTimeoutSeconds = defaultLookupTimeoutSeconds
	}
	if wp.WriteTimeoutSeconds <= 0 {
		wp.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	}
}

func (c *Config) normalizeExtract() {
	if c.Extract.TimeoutSeconds <= 0 {
		c.Extract.TimeoutSeconds = defaultExtractTimeoutSeconds
	}
}

func (c *Config) normalizeReconcile() error {
	r := &c.Reconcile
	r.CategorySlug = strings.TrimSpace(r.CategorySlug)
	if r.CategorySlug == "" {
		r.CategorySlug = defaultReconcileCategorySlug
	}
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = defaultReconcileStatus
	}
	var err error
	if r.SpreadsheetPath, err = expandPath(strings.TrimSpace(r.SpreadsheetPath)); err != nil {
		return fmt.Errorf("reconcile.spreadsheet_path: %w", err)
	}
	if strings.TrimSpace(r.MatchedOutput) == "" {
		r.MatchedOutput = defaultMatchedOutput
	}
	if r.MatchedOutput, err = expandPath(r.MatchedOutput); err != nil {
		return fmt.Errorf("reconcile.matched_output: %w", err)
	}
	if strings.TrimSpace(r.UnmatchedOutput) == "" {
		r.UnmatchedOutput = defaultUnmatchedOutput
	}
	if r.UnmatchedOutput, err = expandPath(r.UnmatchedOutput); err != nil {
		return fmt.Errorf("reconcile.unmatched_output: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
