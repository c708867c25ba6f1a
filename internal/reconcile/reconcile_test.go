package reconcile_test

import (
	"errors"
	"strings"
	"testing"

	"archivist/internal/reconcile"
	"archivist/internal/sheet"
	"archivist/internal/wordpress"
)

func post(id int64, date, link string) wordpress.Post {
	return wordpress.Post{ID: id, Date: date, Link: link}
}

func issue(year, month, link string) reconcile.Issue {
	return reconcile.Issue{Year: year, Month: month, Link: link}
}

func TestReconcileSubstringEitherDirection(t *testing.T) {
	posts := []wordpress.Post{
		post(1, "2021-05-14T12:00:00", "https://x/a"),
		post(2, "2021-05-20T12:00:00", "b"),
	}
	issues := []reconcile.Issue{
		issue("2021", "5", "https://x/a-suffix"),
		issue("2021", "May", "https://x/b-page"),
	}
	res := reconcile.Reconcile(posts, issues)
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %+v", res)
	}
	if res.Matches[0].Post.ID != 1 || res.Matches[0].Issue.Link != "https://x/a-suffix" {
		t.Fatalf("unexpected first match %+v", res.Matches[0])
	}
	if res.Matches[1].Post.ID != 2 || res.Matches[1].Issue.Link != "https://x/b-page" {
		t.Fatalf("unexpected second match %+v", res.Matches[1])
	}
	if len(res.UnmatchedPosts) != 0 || len(res.UnmatchedIssues) != 0 {
		t.Fatalf("expected no leftovers, got %+v", res)
	}
}

func TestReconcileDisjointKeysStayUnmatched(t *testing.T) {
	res := reconcile.Reconcile(
		[]wordpress.Post{post(1, "2021-05-01T12:00:00", "https://x/a")},
		[]reconcile.Issue{issue("2021", "6", "https://x/a")},
	)
	if len(res.Matches) != 0 {
		t.Fatalf("expected no matches across months, got %+v", res.Matches)
	}
	if len(res.UnmatchedPosts) != 1 || len(res.UnmatchedIssues) != 1 {
		t.Fatalf("expected both unmatched, got %+v", res)
	}
}

func TestReconcileSameMonthDifferentLinkStaysUnmatched(t *testing.T) {
	res := reconcile.Reconcile(
		[]wordpress.Post{post(1, "2021-05-01T12:00:00", "https://x/a")},
		[]reconcile.Issue{issue("2021", "5", "https://x/other")},
	)
	if len(res.Matches) != 0 {
		t.Fatalf("expected no match without a link match, got %+v", res.Matches)
	}
	if len(res.UnmatchedPosts) != 1 || len(res.UnmatchedIssues) != 1 {
		t.Fatalf("expected both unmatched, got %+v", res)
	}
}

func TestReconcileClaimsEachIssueOnce(t *testing.T) {
	posts := []wordpress.Post{post(1, "2021-05-01T12:00:00", "https://x/a")}
	issues := []reconcile.Issue{
		issue("2021", "5", "https://x/zzz"),
		issue("2021", "5", "x/a"),
	}
	res := reconcile.Reconcile(posts, issues)
	if len(res.Matches) != 1 || res.Matches[0].Issue.Link != "x/a" {
		t.Fatalf("expected exactly one match on x/a, got %+v", res.Matches)
	}
	if len(res.UnmatchedIssues) != 1 || res.UnmatchedIssues[0].Link != "https://x/zzz" {
		t.Fatalf("expected the other issue unmatched, got %+v", res.UnmatchedIssues)
	}

	twoPosts := []wordpress.Post{
		post(1, "2021-05-01T12:00:00", "https://x/a"),
		post(2, "2021-05-02T12:00:00", "https://x/a"),
	}
	res = reconcile.Reconcile(twoPosts, []reconcile.Issue{issue("2021", "5", "x/a")})
	if len(res.Matches) != 1 || res.Matches[0].Post.ID != 1 {
		t.Fatalf("expected first post to claim the issue, got %+v", res.Matches)
	}
	if len(res.UnmatchedPosts) != 1 || res.UnmatchedPosts[0].ID != 2 {
		t.Fatalf("expected second post unmatched, got %+v", res.UnmatchedPosts)
	}
}

func TestReconcileEmptyLinksNeverMatch(t *testing.T) {
	res := reconcile.Reconcile(
		[]wordpress.Post{post(1, "2021-05-01T12:00:00", "")},
		[]reconcile.Issue{issue("2021", "5", "")},
	)
	if len(res.Matches) != 0 || len(res.UnmatchedPosts) != 1 || len(res.UnmatchedIssues) != 1 {
		t.Fatalf("expected empty links to stay unmatched, got %+v", res)
	}
}

func TestReconcileKeylessEntriesLeadUnmatched(t *testing.T) {
	posts := []wordpress.Post{
		post(1, "2022-01-01T12:00:00", "p1"),
		post(2, "not a date", "p2"),
		post(3, "2020-01-01T12:00:00", "p3"),
	}
	issues := []reconcile.Issue{
		issue("2030", "3", "i1"),
		issue("1700", "4", "i2"),
		issue("2019", "Smarch", "i3"),
		issue("2019", "2", "i4"),
	}
	res := reconcile.Reconcile(posts, issues)
	var postIDs []int64
	for _, p := range res.UnmatchedPosts {
		postIDs = append(postIDs, p.ID)
	}
	if len(postIDs) != 3 || postIDs[0] != 2 || postIDs[1] != 3 || postIDs[2] != 1 {
		t.Fatalf("unexpected unmatched post order %v", postIDs)
	}
	var links []string
	for _, i := range res.UnmatchedIssues {
		links = append(links, i.Link)
	}
	if strings.Join(links, ",") != "i2,i3,i4,i1" {
		t.Fatalf("unexpected unmatched issue order %v", links)
	}
}

func TestReconcileWithCustomMatcherKeepsClaimOnce(t *testing.T) {
	always := func(string, string) bool { return true }
	posts := []wordpress.Post{
		post(1, "2021-05-01T12:00:00", "a"),
		post(2, "2021-05-01T12:00:00", "b"),
		post(3, "2021-05-01T12:00:00", "c"),
	}
	issues := []reconcile.Issue{issue("2021", "5", "x"), issue("2021", "5", "y")}
	res := reconcile.ReconcileWith(posts, issues, reconcile.Options{Match: always})
	if len(res.Matches) != 2 || len(res.UnmatchedPosts) != 1 || len(res.UnmatchedIssues) != 0 {
		t.Fatalf("unexpected partition %+v", res)
	}
	if res.Matches[0].Issue.Link != "x" || res.Matches[1].Issue.Link != "y" {
		t.Fatalf("expected first-fit assignment, got %+v", res.Matches)
	}
}

func TestPostKeyFormats(t *testing.T) {
	cases := map[string]reconcile.Key{
		"2003-05-07T12:00:00":       {Year: 2003, Month: 5},
		"2003-05-07T12:00:00Z":      {Year: 2003, Month: 5},
		"2003-05-31T23:30:00-05:00": {Year: 2003, Month: 5},
		"2003-05-07T12:00:00.123":   {Year: 2003, Month: 5},
		"2003-12-01":                {Year: 2003, Month: 12},
	}
	for in, want := range cases {
		got, ok := reconcile.PostKey(in)
		if !ok || got != want {
			t.Errorf("PostKey(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "May 2003", "2003-13-01T00:00:00"} {
		if _, ok := reconcile.PostKey(in); ok {
			t.Errorf("expected PostKey(%q) to fail", in)
		}
	}
}

func TestNormalizeYearAndMonth(t *testing.T) {
	years := map[string]int{"2003": 2003, " 2003.0 ": 2003, "1800": 1800, "2200": 2200, "1999.9": 1999}
	for in, want := range years {
		if got, ok := reconcile.NormalizeYear(in); !ok || got != want {
			t.Errorf("NormalizeYear(%q) = %d, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "1799", "2201", "abc", "NaN", "Inf"} {
		if _, ok := reconcile.NormalizeYear(in); ok {
			t.Errorf("expected NormalizeYear(%q) to fail", in)
		}
	}

	months := map[string]int{"1": 1, "12.0": 12, "JAN": 1, "September": 9, "sept.": 9, "dec": 12}
	for in, want := range months {
		if got, ok := reconcile.NormalizeMonth(in); !ok || got != want {
			t.Errorf("NormalizeMonth(%q) = %d, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "0", "13", "Ma", "xyz"} {
		if _, ok := reconcile.NormalizeMonth(in); ok {
			t.Errorf("expected NormalizeMonth(%q) to fail", in)
		}
	}
}

func TestIssuesFromTable(t *testing.T) {
	table, err := sheet.FromRows([][]string{
		{"Year", "Month", "C", "D", "E", "F", "G", "H", "Link"},
		{"2003", "May", "", "", "", "", "", "", "https://x/a"},
	})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if err := reconcile.DefaultColumns.Check(table.Width()); err != nil {
		t.Fatalf("Check: %v", err)
	}
	issues := reconcile.IssuesFromTable(table, reconcile.DefaultColumns)
	if len(issues) != 1 || issues[0].Year != "2003" || issues[0].Month != "May" || issues[0].Link != "https://x/a" {
		t.Fatalf("unexpected issues %+v", issues)
	}
	if len(issues[0].Cells) != 9 {
		t.Fatalf("expected full row retained, got %d cells", len(issues[0].Cells))
	}
}

func TestIssuesFromNarrowTable(t *testing.T) {
	table, err := sheet.FromRows([][]string{{"Year", "Month"}, {"2003", "5"}})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if err := reconcile.DefaultColumns.Check(table.Width()); !errors.Is(err, reconcile.ErrTooFewColumns) {
		t.Fatalf("expected ErrTooFewColumns, got %v", err)
	}
	issues := reconcile.IssuesFromTable(table, reconcile.DefaultColumns)
	if len(issues) != 1 || issues[0].Link != "" || issues[0].Year != "2003" {
		t.Fatalf("unexpected issues %+v", issues)
	}
}
