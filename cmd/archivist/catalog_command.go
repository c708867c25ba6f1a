package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archivist/internal/catalog"
	"archivist/internal/config"
	"archivist/internal/migration"
)

type catalogEntry struct {
	GroupKey       string `json:"group_key"`
	ContainerLabel string `json:"container_label"`
	Date           string `json:"date"`
	Sources        string `json:"sources"`
	PrimaryPath    string `json:"pdf_path,omitempty"`
	SecondaryPath  string `json:"docx_path,omitempty"`
	Done           bool   `json:"done"`
}

func newCatalogEntry(item catalog.Item, done bool) catalogEntry {
	return catalogEntry{
		GroupKey:       item.GroupKey,
		ContainerLabel: item.ContainerLabel,
		Date:           item.Date.String(),
		Sources:        item.Sources().String(),
		PrimaryPath:    item.PrimaryPath,
		SecondaryPath:  item.SecondaryPath,
		Done:           done,
	}
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var remaining bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List archive items in processing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(_ *config.Config, session *migration.Session) error {
				done, err := session.DoneSet(cmd.Context())
				if err != nil {
					return err
				}
				var entries []catalogEntry
				for _, item := range session.Catalog().Items() {
					isDone := done.Contains(item.GroupKey)
					if remaining && isDone {
						continue
					}
					entries = append(entries, newCatalogEntry(item, isDone))
				}

				out := cmd.OutOrStdout()
				if asJSON {
					if entries == nil {
						entries = []catalogEntry{}
					}
					return writeJSON(out, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No items found")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.GroupKey, e.ContainerLabel, e.Date, e.Sources, yesNo(e.Done)})
				}
				columns := leftColumns("Group Key", "Folder", "Date", "Sources", "Done")
				fmt.Fprint(out, renderTable(columns, rows, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&remaining, "remaining", false, "Only list items without a done ledger row")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
