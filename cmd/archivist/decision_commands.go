package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/ledger"
	"archivist/internal/migration"
	"archivist/internal/services"
)

type decisionReport struct {
	GroupKey string `json:"group_key"`
	Status   string `json:"status"`
	PostID   int64  `json:"post_id,omitempty"`
	URL      string `json:"url,omitempty"`
	// AuthorSet is false when the CMS refused the author and the post fell
	// back to the authenticated user.
	AuthorSet bool `json:"author_set"`
}

type decisionFlags struct {
	title   string
	date    string
	force   bool
	asJSON  bool
	content contentFlags
}

type decideFunc func(*migration.Session, context.Context, migration.Submission) (migration.Outcome, error)

func newDecisionCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newPostDecisionCommand(ctx, "publish", "Publish an item as a new post", (*migration.Session).Publish),
		newPostDecisionCommand(ctx, "draft", "Create a draft post for an item", (*migration.Session).Draft),
		newSkipCommand(ctx),
	}
}

func newPostDecisionCommand(ctx *commandContext, use, short string, decide decideFunc) *cobra.Command {
	var flags decisionFlags

	cmd := &cobra.Command{
		Use:   use + " <group-key>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(_ *config.Config, session *migration.Session) error {
				sub, err := ctx.buildSubmission(cmd, session, args[0], flags, true)
				if err != nil {
					return err
				}
				outcome, err := decide(session, cmd.Context(), sub)
				if err != nil {
					return withHint(err)
				}
				return renderDecision(cmd.OutOrStdout(), outcome, flags.asJSON)
			})
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "Post title")
	cmd.Flags().StringVar(&flags.date, "date", "", "Post date as YYYY-MM-DD (default: the date in the file name)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Submit even if the ledger already records the item as done")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Output as JSON")
	flags.content.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSkipCommand(ctx *commandContext) *cobra.Command {
	var flags decisionFlags

	cmd := &cobra.Command{
		Use:   "skip <group-key>",
		Short: "Record that an item will not be migrated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(_ *config.Config, session *migration.Session) error {
				sub, err := ctx.buildSubmission(cmd, session, args[0], flags, false)
				if err != nil {
					return err
				}
				outcome, err := session.Skip(cmd.Context(), sub)
				if err != nil {
					return withHint(err)
				}
				return renderDecision(cmd.OutOrStdout(), outcome, flags.asJSON)
			})
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "Title to record")
	cmd.Flags().StringVar(&flags.date, "date", "", "Date to record as YYYY-MM-DD")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Record even if the ledger already records the item as done")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Output as JSON")
	return cmd
}

// buildSubmission assembles the operator input for groupKey. Post decisions
// default the date to the catalog date and resolve content; skips record
// only what was given.
func (c *commandContext) buildSubmission(cmd *cobra.Command, session *migration.Session, groupKey string, flags decisionFlags, withContent bool) (migration.Submission, error) {
	groupKey = strings.TrimSpace(groupKey)
	if !flags.force {
		done, err := session.DoneSet(cmd.Context())
		if err != nil {
			return migration.Submission{}, err
		}
		if done.Contains(groupKey) {
			return migration.Submission{}, fmt.Errorf("%s is already recorded as done (use --force to submit again)", groupKey)
		}
	}

	sub := migration.Submission{
		GroupKey: groupKey,
		Title:    flags.title,
		Date:     flags.date,
	}
	item, known := session.Catalog().Lookup(groupKey)
	if !withContent {
		return sub, nil
	}
	if known && strings.TrimSpace(sub.Date) == "" {
		sub.Date = item.Date.String()
	}
	if !known && strings.TrimSpace(flags.content.file) == "" {
		return migration.Submission{}, services.Wrap(services.ErrNotFound, "cli", "submit", fmt.Sprintf("%s is not in the catalog; pass --content-file", groupKey), nil)
	}
	content, err := c.prepareContent(cmd.Context(), cmd.InOrStdin(), item, flags.content)
	if err != nil {
		return migration.Submission{}, err
	}
	sub.Content = content.Text
	sub.OCRUsed = content.OCRUsed
	sub.CleanupApplied = content.CleanupApplied
	return sub, nil
}

func renderDecision(out io.Writer, outcome migration.Outcome, asJSON bool) error {
	row := outcome.Row
	report := decisionReport{
		GroupKey:  row.GroupKey,
		Status:    string(row.Outcome),
		PostID:    row.PostID,
		URL:       row.PostURL,
		AuthorSet: row.AuthorSet,
	}
	if asJSON {
		return writeJSON(out, report)
	}
	switch row.Outcome {
	case ledger.OutcomeSkipped:
		fmt.Fprintf(out, "Skipped %s\n", row.GroupKey)
	default:
		label := "Published"
		if row.Outcome == ledger.OutcomeDraft {
			label = "Drafted"
		}
		fmt.Fprintf(out, "%s %s as post %d: %s\n", label, row.GroupKey, row.PostID, row.PostURL)
		if !row.AuthorSet {
			fmt.Fprintln(out, "Warning: author not set; the post is attributed to the authenticated user")
		}
	}
	return nil
}

// withHint appends the operator next step to a failed decision.
func withHint(err error) error {
	return fmt.Errorf("%w\nhint: %s", err, services.Hint(err))
}
