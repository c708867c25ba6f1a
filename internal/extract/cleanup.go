package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	hyphenBreak   = regexp.MustCompile(`([\p{L}\p{N}_]+)-\n([\p{L}\p{N}_]+)`)
	horizontalRun = regexp.MustCompile(`[ \t]+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)

	glyphReplacer = strings.NewReplacer(
		"\ufb01", "fi",
		"\ufb02", "fl",
		"«", `"`,
		"»", `"`,
		"‹", "'",
		"›", "'",
		"^^", "^",
	)
)

// FixHyphenation joins words split across a line break by a trailing hyphen.
func FixHyphenation(text string) string {
	return hyphenBreak.ReplaceAllString(text, "${1}${2}")
}

// NormalizeText composes Unicode to NFC and replaces typographic glyphs left
// by scanning with their plain forms. Whitespace is then tightened: runs of
// spaces or tabs become one space and at most one blank line survives.
func NormalizeText(text string) string {
	text = norm.NFC.String(text)
	text = glyphReplacer.Replace(text)
	text = horizontalRun.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return blankLines.ReplaceAllString(text, "\n\n")
}

// Cleanup repairs hyphenation, then normalizes the text.
func Cleanup(text string) string {
	return NormalizeText(FixHyphenation(text))
}
