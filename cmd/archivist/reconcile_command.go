package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/logging"
	"archivist/internal/reconcile"
	"archivist/internal/report"
	"archivist/internal/sheet"
	"archivist/internal/wordpress"
)

type reconcileFlags struct {
	spreadsheet     string
	categorySlug    string
	fallbackID      int64
	status          string
	matchedOutput   string
	unmatchedOutput string
}

// apply overrides the reconcile section with the flags that were set.
func (f reconcileFlags) apply(cmd *cobra.Command, r config.Reconcile) (config.Reconcile, error) {
	var err error
	if cmd.Flags().Changed("spreadsheet") {
		if r.SpreadsheetPath, err = config.ExpandPath(f.spreadsheet); err != nil {
			return r, fmt.Errorf("resolve spreadsheet path: %w", err)
		}
	}
	if cmd.Flags().Changed("category-slug") {
		r.CategorySlug = f.categorySlug
	}
	if cmd.Flags().Changed("status") {
		r.Status = f.status
	}
	if cmd.Flags().Changed("matched-output") {
		if r.MatchedOutput, err = config.ExpandPath(f.matchedOutput); err != nil {
			return r, fmt.Errorf("resolve matched output: %w", err)
		}
	}
	if cmd.Flags().Changed("unmatched-output") {
		if r.UnmatchedOutput, err = config.ExpandPath(f.unmatchedOutput); err != nil {
			return r, fmt.Errorf("resolve unmatched output: %w", err)
		}
	}
	if r.MatchedOutput == r.UnmatchedOutput {
		return r, errors.New("matched and unmatched outputs must differ")
	}
	return r, nil
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var flags reconcileFlags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match published posts against a spreadsheet of issues",
		Long: "Fetch the posts in a category and pair each with a spreadsheet row for the same year and month " +
			"whose link matches the permalink. Posts and rows left without such a pair, including same-month " +
			"rows with a different link, go to the unmatched report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := ctx.wordpressClient()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "reconcile")
			settings, err := flags.apply(cmd, cfg.Reconcile)
			if err != nil {
				return err
			}

			categoryID, ok, err := client.ResolveCategoryBySlug(cmd.Context(), settings.CategorySlug, flags.fallbackID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("could not resolve category %q", settings.CategorySlug)
			}
			posts, err := client.ListPosts(cmd.Context(), wordpress.ListOptions{
				CategoryID:  categoryID,
				Status:      settings.Status,
				EmbedAuthor: true,
			})
			if err != nil {
				return err
			}

			table, err := sheet.Read(settings.SpreadsheetPath)
			if err != nil {
				return err
			}
			cols := reconcile.Columns{Year: settings.YearColumn, Month: settings.MonthColumn, Link: settings.LinkColumn}
			if err := cols.Check(table.Width()); err != nil {
				logging.WarnWithContext(logger, "spreadsheet narrower than key columns", "spreadsheet_too_narrow",
					logging.String("path", settings.SpreadsheetPath),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check year_column, month_column and link_column"),
				)
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; missing cells are treated as empty\n", err)
			}
			issues := reconcile.IssuesFromTable(table, cols)
			result := reconcile.Reconcile(posts, issues)
			logger.Info("reconciled",
				logging.String(logging.FieldEventType, "reconcile_complete"),
				logging.Int("posts", len(posts)),
				logging.Int("issues", len(issues)),
				logging.Int("matched", len(result.Matches)),
			)

			err = report.WriteFile(settings.MatchedOutput, func(w io.Writer) error {
				return report.WriteMatched(w, table.Headers, result.Matches)
			})
			if err != nil {
				return err
			}
			err = report.WriteFile(settings.UnmatchedOutput, func(w io.Writer) error {
				return report.WriteUnmatched(w, table.Headers, result.UnmatchedPosts, result.UnmatchedIssues)
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d matched rows to %s\n", len(result.Matches), settings.MatchedOutput)
			fmt.Fprintf(out, "Wrote %d unmatched rows to %s\n",
				len(result.UnmatchedPosts)+len(result.UnmatchedIssues), settings.UnmatchedOutput)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.spreadsheet, "spreadsheet", "", "Issue spreadsheet (.ods or .xlsx; default: reconcile.spreadsheet_path)")
	cmd.Flags().StringVar(&flags.categorySlug, "category-slug", "", "Category slug to match (default: reconcile.category_slug)")
	cmd.Flags().Int64Var(&flags.fallbackID, "fallback-category-id", 0, "Category ID to use when the slug cannot be resolved")
	cmd.Flags().StringVar(&flags.status, "status", "", "Post status to query (default: reconcile.status)")
	cmd.Flags().StringVar(&flags.matchedOutput, "matched-output", "", "Matched report path (default: reconcile.matched_output)")
	cmd.Flags().StringVar(&flags.unmatchedOutput, "unmatched-output", "", "Unmatched report path (default: reconcile.unmatched_output)")
	return cmd
}
