package wordpress

import (
	"fmt"
	"strings"
	"time"
)

const isoSecondsLayout = "2006-01-02T15:04:05-07:00"

// LocalNoon converts a YYYY-MM-DD date into an ISO-8601 timestamp at 12:00
// carrying the current local UTC offset, e.g. 2003-05-07T12:00:00-05:00.
func LocalNoon(date string) (string, error) {
	return LocalNoonAt(date, time.Now())
}

// LocalNoonAt is LocalNoon with the offset taken from now. The offset is the
// one in effect at now, not at the target date.
func LocalNoonAt(date string, now time.Time) (string, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	_, offset := now.Zone()
	zone := time.FixedZone("", offset)
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, zone)
	return noon.Format(isoSecondsLayout), nil
}
