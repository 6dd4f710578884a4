package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ClockLayout defines the canonical local time-of-day format (24h).
const ClockLayout = "15:04"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock parses an HH:MM local time-of-day string.
func ParseClock(value string) (time.Time, error) {
	return time.Parse(ClockLayout, value)
}

// CombineDateClock merges a date with an HH:MM clock string into one instant.
// An unparseable clock falls back to the date at midnight.
func CombineDateClock(date time.Time, clock string) time.Time {
	c, err := ParseClock(clock)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, date.Location())
}

// WeekKey returns a stable Monday-based key (the Monday's date) for the week
// containing t. Games sharing a key belong to the same scheduling week.
func WeekKey(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := t.AddDate(0, 0, -offset)
	return FormatDate(monday)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysBetween returns the whole-day distance between two dates, ignoring
// time-of-day. The result is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
