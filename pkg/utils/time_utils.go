package utils

import (
	"math"
	"time"
)

// India Standard Time (+05:30), the zone trip dates are planned in.
var istLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}()

const DateKeyLayout = "2006-01-02"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSecondsUTC converts an epoch value in seconds. Returns zero time
// if t<=0 to let callers decide how to render.
func FromUnixSecondsUTC(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

// DateKey renders the calendar date of t in UTC, e.g. 2025-06-01.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// DaysUntil rounds the time from now to target up to whole days. It is
// negative when target has passed.
func DaysUntil(now, target time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

func FormatDisplayIST(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(istLoc).Format("02 Jan 2006 15:04 MST")
}
