package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/fileutil"
	"archivist/internal/ledger"
	"archivist/internal/migration"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect the progress ledger",
	}
	logCmd.AddCommand(newLogExportCommand(ctx))
	return logCmd
}

func newLogExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every ledger row as CSV",
		Long:  "Write every ledger row as CSV in the progress log column order. Works for both backends; with no --output the rows go to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(_ *config.Config, session *migration.Session) error {
				target := strings.TrimSpace(output)
				if target == "" {
					_, err := ledger.Export(cmd.Context(), session.Ledger(), cmd.OutOrStdout())
					return err
				}
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				var count int
				err = fileutil.WriteAtomic(expanded, 0o644, func(w io.Writer) error {
					var exportErr error
					count, exportErr = ledger.Export(cmd.Context(), session.Ledger(), w)
					return exportErr
				})
				if err != nil {
					return fmt.Errorf("export ledger: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d ledger rows to %s\n", count, expanded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination CSV file (default: stdout)")
	return cmd
}
