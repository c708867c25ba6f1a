package migration

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"archivist/internal/ledger"
	"archivist/internal/logging"
	"archivist/internal/services"
	"archivist/internal/wordpress"
)

// Submission is the operator's input for one item. Date is YYYY-MM-DD.
type Submission struct {
	GroupKey       string
	ContainerLabel string
	Title          string
	Date           string
	Content        string
	OCRUsed        bool
	CleanupApplied bool
}

// Outcome is the ledger row written for a decision and, for posts, the
// created resource.
type Outcome struct {
	Row  ledger.Row
	Post wordpress.PostResult
}

// Publish creates a published post and records it.
func (s *Session) Publish(ctx context.Context, sub Submission) (Outcome, error) {
	return s.submit(ctx, wordpress.StatusPublish, sub)
}

// Draft creates a draft post and records it.
func (s *Session) Draft(ctx context.Context, sub Submission) (Outcome, error) {
	return s.submit(ctx, wordpress.StatusDraft, sub)
}

// Skip records that the item will not be migrated. Title and date are
// recorded as given and may be empty.
func (s *Session) Skip(ctx context.Context, sub Submission) (Outcome, error) {
	sub = sub.trimmed()
	if sub.GroupKey == "" {
		return Outcome{}, services.Wrap(services.ErrValidation, "migration", "skip", "group key is required", nil)
	}
	ctx = s.context(ctx, "skip", sub.GroupKey)
	logger := logging.WithContext(ctx, s.logger)
	row := s.baseRow(logger, sub)
	row.Outcome = ledger.OutcomeSkipped
	if err := s.append(ctx, row); err != nil {
		return Outcome{}, err
	}
	logger.Info("item skipped", logging.String(logging.FieldEventType, "item_skipped"))
	return Outcome{Row: row}, nil
}

func (s *Session) submit(ctx context.Context, status string, sub Submission) (Outcome, error) {
	sub = sub.trimmed()
	op := "publish"
	outcome := ledger.OutcomePublished
	if status == wordpress.StatusDraft {
		op, outcome = "draft", ledger.OutcomeDraft
	}
	if sub.GroupKey == "" {
		return Outcome{}, services.Wrap(services.ErrValidation, "migration", op, "group key is required", nil)
	}
	if sub.Title == "" || sub.Date == "" {
		return Outcome{}, services.Wrap(services.ErrValidation, "migration", op, "title and date required", nil)
	}
	if s.publisher == nil {
		return Outcome{}, services.Wrap(services.ErrConfiguration, "migration", op, "wordpress connection is not configured", nil)
	}
	ctx = s.context(ctx, op, sub.GroupKey)
	logger := logging.WithContext(ctx, s.logger)

	row := s.baseRow(logger, sub)
	result, err := s.publisher.CreatePost(ctx, wordpress.PostRequest{
		Title:   sub.Title,
		Content: sub.Content,
		Date:    sub.Date,
		Status:  status,
	})
	if err != nil {
		row.Outcome = ledger.OutcomeError
		row.ErrorMessage = err.Error()
		logging.ErrorWithContext(logger, "post failed", op+"_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
		if appendErr := s.append(ctx, row); appendErr != nil {
			return Outcome{Row: row}, errors.Join(err, appendErr)
		}
		return Outcome{Row: row}, err
	}

	row.Outcome = outcome
	row.PostID = result.ID
	row.PostURL = result.URL
	row.AuthorSet = result.AuthorSet
	if err := s.append(ctx, row); err != nil {
		// The post exists remotely; the item will be offered again.
		logging.ErrorWithContext(logger, "post created but not recorded", "ledger_append_failed",
			logging.Int64("post_id", result.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "record the post manually before retrying to avoid a duplicate"),
		)
		return Outcome{Row: row, Post: result}, err
	}
	return Outcome{Row: row, Post: result}, nil
}

// baseRow fills the provenance columns from the catalog. Unknown group keys
// are recorded with both source flags false.
func (s *Session) baseRow(logger *slog.Logger, sub Submission) ledger.Row {
	row := ledger.Row{
		ContainerLabel: sub.ContainerLabel,
		GroupKey:       sub.GroupKey,
		DateParsed:     sub.Date,
		Title:          sub.Title,
		OCRUsed:        sub.OCRUsed,
		CleanupApplied: sub.CleanupApplied,
	}
	if item, ok := s.catalog.Lookup(sub.GroupKey); ok {
		row.HasPrimary = item.HasPrimary()
		row.HasSecondary = item.HasSecondary()
		if row.ContainerLabel == "" {
			row.ContainerLabel = item.ContainerLabel
		}
	} else {
		logging.WarnWithContext(logger, "group key not in catalog", "unknown_group_key",
			logging.String(logging.FieldErrorHint, "refresh the catalog if the archive changed"),
		)
	}
	return row
}

func (sub Submission) trimmed() Submission {
	sub.GroupKey = strings.TrimSpace(sub.GroupKey)
	sub.ContainerLabel = strings.TrimSpace(sub.ContainerLabel)
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Date = strings.TrimSpace(sub.Date)
	return sub
}
