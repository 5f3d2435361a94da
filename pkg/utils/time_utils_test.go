package utils

import (
	"testing"
	"time"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		target time.Time
		want   int
	}{
		{now, 0},
		{now.Add(time.Hour), 1},
		{now.Add(5 * 24 * time.Hour), 5},
		{now.Add(5*24*time.Hour + time.Minute), 6},
		{now.Add(-48 * time.Hour), -2},
	}
	for _, tc := range cases {
		if got := DaysUntil(now, tc.target); got != tc.want {
			t.Errorf("DaysUntil(%v) = %d, want %d", tc.target, got, tc.want)
		}
	}
}

func TestDateKeyAndUnix(t *testing.T) {
	ts := FromUnixSecondsUTC(1748779200) // 2025-06-01T12:00:00Z
	if DateKey(ts) != "2025-06-01" {
		t.Errorf("DateKey = %s", DateKey(ts))
	}
	if !FromUnixSecondsUTC(0).IsZero() {
		t.Error("zero epoch should map to zero time")
	}
	if got := FormatDisplayIST(ts); got != "01 Jun 2025 17:30 IST" {
		t.Errorf("FormatDisplayIST = %q", got)
	}
}
