package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"archivist/internal/textutil"
)

// Key is a calendar month.
type Key struct {
	Year  int
	Month int
}

func (k Key) String() string { return fmt.Sprintf("%04d-%02d", k.Year, k.Month) }

// Less orders keys chronologically.
func (k Key) Less(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

var postDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// PostKey derives the month of a post timestamp. Offset-less CMS timestamps,
// UTC "Z" suffixes and explicit offsets are accepted; the month is read as
// written, without converting zones.
func PostKey(date string) (Key, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return Key{}, false
	}
	for _, layout := range postDateLayouts {
		if ts, err := time.Parse(layout, date); err == nil {
			return Key{Year: ts.Year(), Month: int(ts.Month())}, true
		}
	}
	return Key{}, false
}

var monthAbbrevs = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeYear accepts integer or float-formatted years between 1800 and
// 2200. Fractions are truncated.
func NormalizeYear(value string) (int, bool) {
	n, ok := truncatedNumber(value)
	if !ok || n < 1800 || n > 2200 {
		return 0, false
	}
	return n, true
}

// NormalizeMonth accepts month numbers 1-12 (integer or float formatted) or
// any text whose first three letters case-insensitively name a month.
func NormalizeMonth(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if n, ok := truncatedNumber(value); ok && n >= 1 && n <= 12 {
		return n, true
	}
	prefix := []rune(textutil.Fold(value))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	month, ok := monthAbbrevs[string(prefix)]
	return month, ok
}

// IssueKey combines separately stored year and month cells.
func IssueKey(year, month string) (Key, bool) {
	y, ok := NormalizeYear(year)
	if !ok {
		return Key{}, false
	}
	m, ok := NormalizeMonth(month)
	if !ok {
		return Key{}, false
	}
	return Key{Year: y, Month: m}, true
}

func truncatedNumber(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
