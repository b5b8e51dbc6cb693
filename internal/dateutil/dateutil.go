// Package dateutil provides calendar math over canonical YYYY-MM-DD date keys.
//
// Date keys derive from the wall-clock date in the time's own location; no
// timezone normalization is applied.
package dateutil

import "time"

// KeyLayout is the canonical date-key format.
const KeyLayout = "2006-01-02"

// MonthLayout identifies a month, used for query parameters.
const MonthLayout = "2006-01"

// Key formats t as a canonical date key.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a canonical date key. Syntactically well-formed but
// non-existent dates (month 13, Feb 30) are rejected by time.Parse.
func ParseKey(s string) (time.Time, error) {
	return time.Parse(KeyLayout, s)
}

// ParseMonth parses a YYYY-MM month identifier to its first day.
func ParseMonth(s string) (time.Time, error) {
	return time.Parse(MonthLayout, s)
}

// MonthStart returns the first day of t's month, at midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last day of t's month, at midnight.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// AddMonths shifts t by n months, anchored to the first of the month so that
// navigation from e.g. Jan 31 cannot skip February.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// WeekStart returns the Sunday on or before t, at midnight.
func WeekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns the Saturday on or after t, at midnight.
func WeekEnd(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, int(time.Saturday-d.Weekday()))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// GridDays enumerates the full weeks covering month: from the Sunday on or
// before the 1st through the Saturday on or after the last day. The result
// length is always a multiple of 7.
func GridDays(month time.Time) []time.Time {
	start := WeekStart(MonthStart(month))
	end := WeekEnd(MonthEnd(month))

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// InMonthKey reports whether the date key falls inside month. Malformed keys
// are never in any month.
func InMonthKey(key string, month time.Time) bool {
	d, err := ParseKey(key)
	if err != nil {
		return false
	}
	return SameMonth(d, month)
}
