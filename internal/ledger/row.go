package ledger

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the local-time layout written to the timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// Outcome is the recorded result of one migration decision.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeDraft     Outcome = "draft"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeError     Outcome = "error"
)

// Done reports whether the outcome removes its item from future runs.
func (o Outcome) Done() bool {
	switch o {
	case OutcomePublished, OutcomeDraft, OutcomeSkipped:
		return true
	default:
		return false
	}
}

// Header lists the ledger columns in file order.
var Header = []string{
	"timestamp", "year_folder", "basename", "has_pdf", "has_docx", "date_parsed",
	"title", "status", "ocr_used", "cleanup_applied",
	"wp_post_id", "wp_url", "author_set", "error_message",
}

// Row is one ledger entry.
type Row struct {
	Timestamp      time.Time
	ContainerLabel string
	GroupKey       string
	HasPrimary     bool
	HasSecondary   bool
	DateParsed     string
	Title          string
	Outcome        Outcome
	OCRUsed        bool
	CleanupApplied bool
	PostID         int64
	PostURL        string
	AuthorSet      bool
	ErrorMessage   string
}

// DoneSet is the set of group keys that no longer need attention.
type DoneSet map[string]struct{}

// Contains reports whether key is done.
func (d DoneSet) Contains(key string) bool {
	_, ok := d[key]
	return ok
}

// canonical returns r as every backend stores it. A zero timestamp becomes
// the current local time at second precision, and carriage returns in text
// fields become plain newlines because CSV cannot carry them back.
func (r Row) canonical(now func() time.Time) Row {
	if r.Timestamp.IsZero() {
		r.Timestamp = now().Truncate(time.Second)
	}
	for _, field := range []*string{&r.ContainerLabel, &r.GroupKey, &r.DateParsed, &r.Title, &r.PostURL, &r.ErrorMessage} {
		*field = normalizeBreaks(*field)
	}
	return r
}

var breakReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeBreaks(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return breakReplacer.Replace(s)
}

// Record renders r as CSV fields in Header order. Line breaks in text fields
// are written as "\n".
func (r Row) Record() []string {
	postID := ""
	if r.PostID > 0 {
		postID = strconv.FormatInt(r.PostID, 10)
	}
	return []string{
		r.Timestamp.In(time.Local).Format(TimestampLayout),
		normalizeBreaks(r.ContainerLabel),
		normalizeBreaks(r.GroupKey),
		formatBool(r.HasPrimary),
		formatBool(r.HasSecondary),
		normalizeBreaks(r.DateParsed),
		normalizeBreaks(r.Title),
		string(r.Outcome),
		formatBool(r.OCRUsed),
		formatBool(r.CleanupApplied),
		postID,
		normalizeBreaks(r.PostURL),
		formatBool(r.AuthorSet),
		normalizeBreaks(r.ErrorMessage),
	}
}

// formatBool uses the capitalized spelling existing ledgers already contain.
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// columns maps header names to record positions.
type columns map[string]int

func newColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func (c columns) get(record []string, name string) (string, bool) {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return "", false
	}
	return record[i], true
}

// parseRecord decodes a record written under header c. ok is false when the
// record lacks the group key or outcome columns.
func (c columns) parseRecord(record []string) (Row, bool) {
	key, ok := c.get(record, "basename")
	if !ok {
		return Row{}, false
	}
	status, ok := c.get(record, "status")
	if !ok {
		return Row{}, false
	}
	field := func(name string) string {
		v, _ := c.get(record, name)
		return v
	}
	row := Row{
		ContainerLabel: field("year_folder"),
		GroupKey:       key,
		HasPrimary:     parseBool(field("has_pdf")),
		HasSecondary:   parseBool(field("has_docx")),
		DateParsed:     field("date_parsed"),
		Title:          field("title"),
		Outcome:        Outcome(strings.TrimSpace(status)),
		OCRUsed:        parseBool(field("ocr_used")),
		CleanupApplied: parseBool(field("cleanup_applied")),
		PostURL:        field("wp_url"),
		AuthorSet:      parseBool(field("author_set")),
		ErrorMessage:   field("error_message"),
	}
	if ts, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(field("timestamp")), time.Local); err == nil {
		row.Timestamp = ts
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(field("wp_post_id")), 10, 64); err == nil {
		row.PostID = id
	}
	return row, true
}
