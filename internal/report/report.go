package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"archivist/internal/fileutil"
	"archivist/internal/reconcile"
	"archivist/internal/wordpress"
)

// Unmatched entry tags in the unmatched report.
const (
	TypePost  = "post"
	TypeIssue = "issue"
)

var postColumns = []string{"wp_title", "wp_date", "wp_permalink", "wp_author"}

// PostsExportHeader is the header of the posts export.
var PostsExportHeader = []string{
	"post_id",
	"title",
	"published_date",
	"permalink",
	"additional_category_ids",
	"additional_category_names",
}

// MatchedHeader returns the matched report header: post fields followed by
// every spreadsheet header prefixed with "ods_".
func MatchedHeader(sheetHeaders []string) []string {
	out := make([]string, 0, len(postColumns)+len(sheetHeaders))
	out = append(out, postColumns...)
	for _, h := range sheetHeaders {
		out = append(out, "ods_"+h)
	}
	return out
}

// UnmatchedHeader prepends unmatched_type to MatchedHeader.
func UnmatchedHeader(sheetHeaders []string) []string {
	return append([]string{"unmatched_type"}, MatchedHeader(sheetHeaders)...)
}

// WriteMatched writes one row per match.
func WriteMatched(w io.Writer, sheetHeaders []string, matches []reconcile.Match) error {
	cw := newWriter(w)
	if err := cw.Write(MatchedHeader(sheetHeaders)); err != nil {
		return fmt.Errorf("write matched header: %w", err)
	}
	for _, m := range matches {
		record := append(postFields(m.Post), issueFields(m.Issue, len(sheetHeaders))...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write matched row: %w", err)
		}
	}
	return flush(cw)
}

// WriteUnmatched writes unmatched posts, then unmatched issues. Posts leave
// the spreadsheet columns empty; issues leave the post columns empty.
func WriteUnmatched(w io.Writer, sheetHeaders []string, posts []wordpress.Post, issues []reconcile.Issue) error {
	cw := newWriter(w)
	if err := cw.Write(UnmatchedHeader(sheetHeaders)); err != nil {
		return fmt.Errorf("write unmatched header: %w", err)
	}
	blankIssue := make([]string, len(sheetHeaders))
	for _, p := range posts {
		record := append([]string{TypePost}, postFields(p)...)
		record = append(record, blankIssue...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write unmatched post: %w", err)
		}
	}
	blankPost := make([]string, len(postColumns))
	for _, issue := range issues {
		record := append([]string{TypeIssue}, blankPost...)
		record = append(record, issueFields(issue, len(sheetHeaders))...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write unmatched issue: %w", err)
		}
	}
	return flush(cw)
}

// WritePostsExport lists posts with the categories they carry beyond
// mainCategory. Names missing from names are omitted from the names column
// while their IDs are still listed.
func WritePostsExport(w io.Writer, posts []wordpress.Post, mainCategory int64, names map[int64]string) error {
	cw := newWriter(w)
	if err := cw.Write(PostsExportHeader); err != nil {
		return fmt.Errorf("write posts header: %w", err)
	}
	for _, p := range posts {
		var ids, labels []string
		for _, id := range AdditionalCategories(p, mainCategory) {
			ids = append(ids, strconv.FormatInt(id, 10))
			if name := names[id]; name != "" {
				labels = append(labels, name)
			}
		}
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			p.Date,
			p.Link,
			strings.Join(ids, ","),
			strings.Join(labels, ","),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write post %d: %w", p.ID, err)
		}
	}
	return flush(cw)
}

// AdditionalCategories returns the post's category IDs other than main, in
// their original order.
func AdditionalCategories(p wordpress.Post, main int64) []int64 {
	var out []int64
	for _, id := range p.Categories {
		if id != main {
			out = append(out, id)
		}
	}
	return out
}

// WriteFile atomically replaces path with the output of write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := fileutil.WriteAtomic(path, 0o644, write); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

func postFields(p wordpress.Post) []string {
	return []string{p.Title, p.Date, p.Link, p.AuthorName}
}

func issueFields(issue reconcile.Issue, width int) []string {
	out := make([]string, width)
	copy(out, issue.Cells)
	return out
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

func flush(cw *csv.Writer) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
