package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/deps"
	"archivist/internal/migration"
	"archivist/internal/preflight"
)

type statusReport struct {
	Total        int                `json:"total"`
	Done         int                `json:"done"`
	Remaining    int                `json:"remaining"`
	Next         *catalogEntry      `json:"next,omitempty"`
	Ledger       string             `json:"ledger"`
	CMS          string             `json:"cms,omitempty"`
	CMSReady     bool               `json:"cms_ready"`
	Dependencies []deps.Status      `json:"dependencies"`
	Preflight    []preflight.Result `json:"preflight"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration progress and environment readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(cfg *config.Config, session *migration.Session) error {
				progress, err := session.Progress(cmd.Context())
				if err != nil {
					return err
				}
				report := statusReport{
					Total:        progress.Total,
					Done:         progress.Done,
					Remaining:    progress.Remaining,
					Ledger:       cfg.LedgerPath(),
					CMS:          cfg.WordPress.BaseURL,
					CMSReady:     cfg.WordPressReady() == nil,
					Dependencies: deps.CheckBinaries(deps.ExtractRequirements(cfg.Extract)),
					Preflight:    preflight.RunAll(cmd.Context(), cfg),
				}
				if progress.Next != nil {
					next := newCatalogEntry(*progress.Next, false)
					report.Next = &next
				}

				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, report)
				}
				colorize := shouldColorize(out)
				lines := renderSectionHeader("Progress", colorize)
				lines = append(lines,
					renderStatusLine("Items", statusInfo, fmt.Sprintf("%d total, %d done, %d remaining", report.Total, report.Done, report.Remaining), colorize),
				)
				if report.Next != nil {
					lines = append(lines, renderStatusLine("Next", statusInfo, fmt.Sprintf("%s (%s, %s)", report.Next.GroupKey, report.Next.Date, report.Next.Sources), colorize))
				} else {
					lines = append(lines, renderStatusLine("Next", statusOK, "all items done", colorize))
				}
				lines = append(lines, renderStatusLine("Ledger", statusInfo, report.Ledger, colorize))
				if !report.CMSReady {
					lines = append(lines, renderStatusLine("CMS", statusWarn, cfg.WordPressReady().Error(), colorize))
				}
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Preflight", colorize)...)
				lines = append(lines, preflightLines(report.Preflight, colorize)...)
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
				lines = append(lines, dependencyLines(report.Dependencies, colorize)...)
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
