package timex

import "time"

// DateLayout is the ISO calendar-date layout (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as YYYY-MM-DD in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// AddDays moves t by n calendar days, keeping wall-clock midnight stable
// across DST transitions.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
