package preflight

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"archivist/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
	// Skipped marks checks whose feature is not configured.
	Skipped bool `json:"skipped,omitempty"`
}

// RunAll executes the checks applicable to cfg: the archive root must be
// readable, the ledger and log directories writable, and the CMS must accept
// the configured credentials.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if strings.TrimSpace(cfg.Paths.SourceRoot) == "" {
		results = append(results, Result{Name: "Archive root", Detail: "not configured"})
	} else {
		results = append(results, CheckDirectoryAccess("Archive root", cfg.Paths.SourceRoot, AccessRead))
	}

	results = append(results, CheckDirectoryAccess("Ledger directory", filepath.Dir(cfg.LedgerPath()), AccessReadWrite))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, AccessReadWrite))
	}

	results = append(results, CheckWordPressFromConfig(ctx, cfg))
	return results
}

// CheckWordPressFromConfig runs CheckWordPress when credentials are present.
func CheckWordPressFromConfig(ctx context.Context, cfg *config.Config) Result {
	if err := cfg.WordPressReady(); err != nil {
		return Result{Name: wordpressCheckName, Detail: "not configured", Skipped: true}
	}
	wp := cfg.WordPress
	return CheckWordPress(ctx, WordPressTarget{
		BaseURL:     wp.BaseURL,
		Username:    wp.Username,
		AppPassword: wp.AppPassword,
		UserAgent:   wp.UserAgent,
		Timeout:     time.Duration(wp.LookupTimeoutSeconds) * time.Second,
	})
}
