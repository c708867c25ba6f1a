package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"archivist/internal/logging"
)

// DefaultPrefix is the stem prefix used by the column archive.
const DefaultPrefix = "PSC"

// Options tunes catalog discovery.
type Options struct {
	// Prefix precedes the _YYYY_MM_DD date in every stem. Empty means DefaultPrefix.
	Prefix string
	Logger *slog.Logger
}

// Build scans root with default options.
func Build(root string) []Item {
	return BuildWithOptions(root, Options{})
}

// BuildWithLogger scans root and reports skipped entries at debug level.
func BuildWithLogger(root string, logger *slog.Logger) []Item {
	return BuildWithOptions(root, Options{Logger: logger})
}

// BuildWithOptions scans root and returns items sorted ascending by date.
// Items with equal dates keep discovery order. An unreadable root yields an
// empty catalog.
func BuildWithOptions(root string, opts Options) []Item {
	logger := logging.NewComponentLogger(opts.Logger, "catalog")
	pattern := stemPattern(opts.Prefix)

	years, err := os.ReadDir(root)
	if err != nil {
		logger.Debug("archive root unreadable", logging.String("root", root), logging.Error(err))
		return []Item{}
	}

	items := make([]Item, 0, 64)
	index := make(map[string]int)
	for _, year := range years {
		if !year.IsDir() || !isDigits(year.Name()) {
			continue
		}
		yearDir := filepath.Join(root, year.Name())
		entries, err := os.ReadDir(yearDir)
		if err != nil {
			logger.Debug("year folder unreadable", logging.String("dir", yearDir), logging.Error(err))
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !isRegularFile(entry, filepath.Join(yearDir, name)) {
				continue
			}
			ext := strings.ToLower(filepath.Ext(name))
			if ext != ".pdf" && ext != ".docx" {
				continue
			}
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			date, ok := parseStem(pattern, stem)
			if !ok {
				logger.Debug("stem skipped", logging.String("file", name))
				continue
			}

			pos, seen := index[stem]
			if !seen {
				pos = len(items)
				index[stem] = pos
				items = append(items, Item{GroupKey: stem, ContainerLabel: year.Name(), Date: date})
			}
			path := filepath.Join(yearDir, name)
			if ext == ".pdf" {
				items[pos].PrimaryPath = path
			} else {
				items[pos].SecondaryPath = path
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	logger.Debug("catalog built", logging.String("root", root), logging.Int("items", len(items)))
	return items
}

// ParseStem extracts the calendar date from a stem using the default prefix.
func ParseStem(stem string) (Date, bool) {
	return parseStem(stemPattern(""), stem)
}

func stemPattern(prefix string) *regexp.Regexp {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "_")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return regexp.MustCompile(fmt.Sprintf(`^%s_(\d{4})_(\d{2})_(\d{2})`, regexp.QuoteMeta(prefix)))
}

func parseStem(pattern *regexp.Regexp, stem string) (Date, bool) {
	m := pattern.FindStringSubmatch(stem)
	if m == nil {
		return Date{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// isRegularFile follows symlinks so linked documents are cataloged too.
func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
