package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/extract"
	"archivist/internal/migration"
)

type nextReport struct {
	Finished bool             `json:"finished"`
	Item     *catalogEntry    `json:"item,omitempty"`
	Content  *preparedContent `json:"content,omitempty"`
}

func newNextCommand(ctx *commandContext) *cobra.Command {
	var flags contentFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next undone item with its extracted text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(_ *config.Config, session *migration.Session) error {
				next, finished, err := session.Next(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if finished {
					if asJSON {
						return writeJSON(out, nextReport{Finished: true})
					}
					fmt.Fprintln(out, "All items are done")
					return nil
				}

				content := preparedContent{Text: next.Text, Source: next.TextSource}
				if flags.ocr || flags.file != "" {
					content, err = ctx.prepareContent(cmd.Context(), cmd.InOrStdin(), next.Item, flags)
					if err != nil {
						return err
					}
				} else if flags.cleanup {
					content.Text = extract.Cleanup(content.Text)
					content.CleanupApplied = true
				}

				entry := newCatalogEntry(next.Item, false)
				if asJSON {
					return writeJSON(out, nextReport{Item: &entry, Content: &content})
				}
				colorize := shouldColorize(out)
				lines := renderSectionHeader(entry.GroupKey, colorize)
				lines = append(lines,
					renderStatusLine("Folder", statusInfo, entry.ContainerLabel, colorize),
					renderStatusLine("Date", statusInfo, entry.Date, colorize),
					renderStatusLine("Sources", statusInfo, entry.Sources, colorize),
				)
				if content.Source == "" {
					lines = append(lines, renderStatusLine("Text", statusWarn, "no text extracted; supply --content-file or try --ocr", colorize))
				} else {
					lines = append(lines, renderStatusLine("Text", statusOK, content.Source, colorize))
				}
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				if content.Text != "" {
					fmt.Fprintln(out)
					fmt.Fprintln(out, content.Text)
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
