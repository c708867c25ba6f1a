package wordpress

import (
	"testing"
	"time"
)

func TestLocalNoonAtUsesCurrentOffset(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	got, err := LocalNoonAt("2003-01-15", now)
	if err != nil {
		t.Fatalf("LocalNoonAt: %v", err)
	}
	if got != "2003-01-15T12:00:00-04:00" {
		t.Fatalf("unexpected timestamp %q", got)
	}

	utc, err := LocalNoonAt("2003-01-15", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("LocalNoonAt: %v", err)
	}
	if utc != "2003-01-15T12:00:00+00:00" {
		t.Fatalf("expected explicit zero offset, got %q", utc)
	}
}

func TestLocalNoonRejectsBadDates(t *testing.T) {
	for _, in := range []string{"", "2003-13-01", "2003-02-30", "May 7 2003"} {
		if _, err := LocalNoon(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
