package config

const (
	defaultProgressLog           = "progress_log.csv"
	defaultCatalogPrefix         = "PSC"
	defaultLedgerBackend         = LedgerBackendCSV
	defaultCategoryPolicy        = CategoryPolicyFixed
	defaultCategoryID            = 72
	defaultCategoryName          = "Phyllis Schlafly Report Column"
	defaultCategorySlug          = "phyllis-schlafly-report-column"
	defaultAuthorFallbackHandle  = "phyllis-wp"
	defaultUserAgent             = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultLookupTimeoutSeconds  = 30
	defaultWriteTimeoutSeconds   = 45
	defaultExtractTimeoutSeconds = 120
	defaultReconcileSpreadsheet  = "edreporter.ods"
	defaultReconcileCategorySlug = "education-reporter"
	defaultReconcileStatus       = "publish"
	defaultMatchedOutput         = "education_reporter_matched.csv"
	defaultUnmatchedOutput       = "education_reporter_unmatched.csv"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Ledger backends.
const (
	LedgerBackendCSV    = "csv"
	LedgerBackendSQLite = "sqlite"
)

// Category resolution policies.
const (
	CategoryPolicyFixed          = "fixed"
	CategoryPolicySearchOrCreate = "search-or-create"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProgressLog: defaultProgressLog,
		},
		Catalog: Catalog{
			Prefix: defaultCatalogPrefix,
		},
		Ledger: Ledger{
			Backend: defaultLedgerBackend,
		},
		WordPress: WordPress{
			AuthorFallbackHandle: defaultAuthorFallbackHandle,
			CategoryPolicy:       defaultCategoryPolicy,
			CategoryID:           defaultCategoryID,
			CategoryName:         defaultCategoryName,
			CategorySlug:         defaultCategorySlug,
			UserAgent:            defaultUserAgent,
			LookupTimeoutSeconds: defaultLookupTimeoutSeconds,
			WriteTimeoutSeconds:  defaultWriteTimeoutSeconds,
		},
		Extract: Extract{
			PDFCommand:     []string{"pdftotext", "-layout", "{path}", "-"},
			DOCXCommand:    []string{"pandoc", "--to", "plain", "{path}"},
			TimeoutSeconds: defaultExtractTimeoutSeconds,
		},
		Reconcile: Reconcile{
			SpreadsheetPath: defaultReconcileSpreadsheet,
			CategorySlug:    defaultReconcileCategorySlug,
			Status:          defaultReconcileStatus,
			YearColumn:      0,
			MonthColumn:     1,
			LinkColumn:      8,
			MatchedOutput:   defaultMatchedOutput,
			UnmatchedOutput: defaultUnmatchedOutput,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
