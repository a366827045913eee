// Package reltime renders timestamps as coarse human readable ages
// ("now", "3 hours ago", "yesterday") for the status feed.
package reltime

import (
	"fmt"
	"time"
)

// FormatRelativeAge returns the display age of ts relative to now.
// Thresholds, in order: under a minute "now", under an hour minutes,
// under a day hours, exactly one day "yesterday", under a week days,
// under four weeks weeks, under twelve months months, otherwise years.
func FormatRelativeAge(ts time.Time, now time.Time) string {
	elapsed := now.Sub(ts)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return "now"

	case elapsed < time.Hour:
		return pluralize(int(elapsed/time.Minute), "minute")

	case elapsed < 24*time.Hour:
		return pluralize(int(elapsed/time.Hour), "hour")

	default:
		days := int(elapsed / (24 * time.Hour))
		switch {
		case days == 1:
			return "yesterday"
		case days < 7:
			return pluralize(days, "day")
		case days < 28:
			return pluralize(days/7, "week")
		case days < 365:
			months := days / 30
			if months < 1 {
				months = 1
			}
			if months > 11 {
				months = 11
			}
			return pluralize(months, "month")
		default:
			return pluralize(days/365, "year")
		}
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
