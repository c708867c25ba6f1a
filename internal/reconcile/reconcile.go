package reconcile

import (
	"sort"
	"strings"

	"archivist/internal/wordpress"
)

// Issue is one spreadsheet row with its key columns lifted out. Cells holds
// the full row aligned with the table headers.
type Issue struct {
	Year  string
	Month string
	Link  string
	Cells []string
}

// Match pairs a post with the issue it claimed.
type Match struct {
	Post  wordpress.Post
	Issue Issue
}

// Result partitions every input exactly once.
type Result struct {
	Matches         []Match
	UnmatchedPosts  []wordpress.Post
	UnmatchedIssues []Issue
}

// MatchFunc decides whether a post permalink corresponds to an issue link.
type MatchFunc func(postLink, issueLink string) bool

// Options tunes reconciliation.
type Options struct {
	// Match replaces LinksMatch. Claim-once semantics are unchanged.
	Match MatchFunc
}

// LinksMatch reports substring containment in either direction. Empty links
// never match.
func LinksMatch(postLink, issueLink string) bool {
	if postLink == "" || issueLink == "" {
		return false
	}
	return strings.Contains(issueLink, postLink) || strings.Contains(postLink, issueLink)
}

// Reconcile matches with LinksMatch.
func Reconcile(posts []wordpress.Post, issues []Issue) Result {
	return ReconcileWith(posts, issues, Options{})
}

// ReconcileWith buckets posts and issues by month and assigns issues to posts
// first-fit within each month, processing months in ascending order. Keyless
// posts and issues lead their unmatched partitions in input order.
func ReconcileWith(posts []wordpress.Post, issues []Issue, opts Options) Result {
	match := opts.Match
	if match == nil {
		match = LinksMatch
	}

	var result Result
	postsByKey := make(map[Key][]wordpress.Post)
	for _, post := range posts {
		key, ok := PostKey(post.Date)
		if !ok {
			result.UnmatchedPosts = append(result.UnmatchedPosts, post)
			continue
		}
		postsByKey[key] = append(postsByKey[key], post)
	}
	issuesByKey := make(map[Key][]Issue)
	for _, issue := range issues {
		key, ok := IssueKey(issue.Year, issue.Month)
		if !ok {
			result.UnmatchedIssues = append(result.UnmatchedIssues, issue)
			continue
		}
		issuesByKey[key] = append(issuesByKey[key], issue)
	}

	keys := make([]Key, 0, len(postsByKey)+len(issuesByKey))
	for key := range postsByKey {
		keys = append(keys, key)
	}
	for key := range issuesByKey {
		if _, seen := postsByKey[key]; !seen {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, key := range keys {
		keyPosts, keyIssues := postsByKey[key], issuesByKey[key]
		if len(keyIssues) == 0 {
			result.UnmatchedPosts = append(result.UnmatchedPosts, keyPosts...)
			continue
		}
		if len(keyPosts) == 0 {
			result.UnmatchedIssues = append(result.UnmatchedIssues, keyIssues...)
			continue
		}
		remaining := append([]Issue(nil), keyIssues...)
		for _, post := range keyPosts {
			claimed := -1
			for idx, issue := range remaining {
				if match(post.Link, issue.Link) {
					claimed = idx
					break
				}
			}
			if claimed < 0 {
				result.UnmatchedPosts = append(result.UnmatchedPosts, post)
				continue
			}
			result.Matches = append(result.Matches, Match{Post: post, Issue: remaining[claimed]})
			remaining = append(remaining[:claimed], remaining[claimed+1:]...)
		}
		result.UnmatchedIssues = append(result.UnmatchedIssues, remaining...)
	}
	return result
}
