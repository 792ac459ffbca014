// Package tracker holds the habit tracking core: calendar-day math, the
// date-window classifier, the streak calculator and the achievement engine.
// Everything here is pure; persistence lives in the store package.
package tracker

import (
	"math"
	"time"
)

// DayKeyLayout is the canonical calendar-day format. Day keys are
// timezone-naive: they name a local calendar day, not an instant.
const DayKeyLayout = "2006-01-02"

// FormatDay renders the local calendar date of t as a zero-padded day key.
func FormatDay(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDay parses a canonical day key back into a time at local midnight.
func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, day, time.Local)
}

// Today returns the current local day key.
func Today() string {
	return FormatDay(time.Now())
}

// AddDays returns the day key n days after day. Negative n walks backward.
// Malformed input yields an empty string rather than a panic.
func AddDays(day string, n int) string {
	t, err := ParseDay(day)
	if err != nil {
		return ""
	}
	return FormatDay(t.AddDate(0, 0, n))
}

// DayRange returns every day key from start to end inclusive, ascending.
// An empty slice is returned when end < start or either key is malformed.
func DayRange(start, end string) []string {
	from, err := ParseDay(start)
	if err != nil {
		return []string{}
	}
	to, err := ParseDay(end)
	if err != nil {
		return []string{}
	}

	days := []string{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDay(d))
	}
	return days
}

// DaysBetween returns the number of calendar days from a to b. Positive when
// b is after a, zero when equal or when either key is malformed.
func DaysBetween(a, b string) int {
	from, err := ParseDay(a)
	if err != nil {
		return 0
	}
	to, err := ParseDay(b)
	if err != nil {
		return 0
	}
	// Round instead of truncate: a DST transition makes a local day 23 or
	// 25 hours long.
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// ValidDay reports whether day is a well-formed canonical day key.
func ValidDay(day string) bool {
	t, err := ParseDay(day)
	if err != nil {
		return false
	}
	// Reject non-canonical spellings like 2024-1-5 that still parse.
	return FormatDay(t) == day
}

// MinDay returns the earlier of two day keys. Canonical day keys order
// lexicographically, so plain string comparison is correct.
func MinDay(a, b string) string {
	if b < a {
		return b
	}
	return a
}
