package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify lowercases name and replaces each space with a hyphen, the way the
// CMS derives user slugs from display names.
func Slugify(name string) string {
	return strings.ReplaceAll(cases.Lower(language.Und).String(strings.TrimSpace(name)), " ", "-")
}

// Fold returns a caseless form of s suitable for equality checks. Casers
// carry state, so each call builds its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b match after case folding and trimming.
func EqualFold(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}

// Snippet truncates s to at most limit bytes without splitting a UTF-8
// sequence. A non-positive limit returns s unchanged.
func Snippet(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
