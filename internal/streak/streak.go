// Package streak derives journaling streak statistics from per-day
// activity records.
//
// Dates are calendar days in YYYY-MM-DD form. "Today" is supplied by the
// caller in whatever location it considers local; no zone normalization
// happens here.
package streak

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/timex"
)

// HistoryLimit is the number of most recent records exposed in Stats.History.
const HistoryLimit = 30

// DefaultWindowDays is the size of the trailing presence view.
const DefaultWindowDays = 14

// Record is one day with activity.
type Record struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats is the computed streak summary for one user.
type Stats struct {
	CurrentStreak  int      `json:"currentStreak"`
	LongestStreak  int      `json:"longestStreak"`
	TodayCompleted bool     `json:"todayCompleted"`
	TotalDays      int      `json:"totalDays"`
	History        []Record `json:"streakHistory"`
}

// Day is one cell of the trailing window.
type Day struct {
	Date   string `json:"date"`
	Active bool   `json:"active"`
	Count  int    `json:"count"`
}

// Compute returns the streak statistics for records as of today.
// records may be in any order. Duplicate dates are collapsed, summing counts.
func Compute(records []Record, today time.Time) Stats {
	days := normalize(records)
	if len(days) == 0 {
		return Stats{History: []Record{}}
	}

	todayStr := timex.FormatDate(today)
	_, todayCompleted := lookup(days, todayStr)

	history := days
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}

	return Stats{
		CurrentStreak:  current(days, today, todayCompleted),
		LongestStreak:  longest(days),
		TodayCompleted: todayCompleted,
		TotalDays:      len(days),
		History:        append([]Record(nil), history...),
	}
}

// Window returns the trailing n-day presence view ending today, oldest first.
// Presence is checked against the full record set, not the truncated history.
func Window(records []Record, today time.Time, n int) []Day {
	if n <= 0 {
		n = DefaultWindowDays
	}

	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.Date] += r.Count
	}

	start := timex.AddDays(timex.Midnight(today), -(n - 1))
	out := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		d := timex.FormatDate(timex.AddDays(start, i))
		c, ok := counts[d]
		out = append(out, Day{Date: d, Active: ok, Count: c})
	}
	return out
}

// normalize dedupes by date and sorts descending. ISO dates sort
// lexically in calendar order.
func normalize(records []Record) []Record {
	byDate := make(map[string]int, len(records))
	for _, r := range records {
		if r.Date == "" {
			continue
		}
		byDate[r.Date] += r.Count
	}

	out := make([]Record, 0, len(byDate))
	for d, c := range byDate {
		out = append(out, Record{Date: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func lookup(days []Record, date string) (Record, bool) {
	for _, d := range days {
		if d.Date == date {
			return d, true
		}
	}
	return Record{}, false
}

// current walks days (descending) from today, or from yesterday when today
// has no record, counting consecutive matches until the first gap.
func current(days []Record, today time.Time, todayCompleted bool) int {
	cursor := timex.Midnight(today)
	if !todayCompleted {
		cursor = timex.AddDays(cursor, -1)
	}

	n := 0
	for _, d := range days {
		expected := timex.FormatDate(cursor)
		if d.Date == expected {
			n++
			cursor = timex.AddDays(cursor, -1)
			continue
		}
		if d.Date < expected {
			break
		}
	}
	return n
}

// longest scans days ascending for the longest run of consecutive dates.
func longest(days []Record) int {
	best, run := 0, 0
	var prev time.Time

	for i := len(days) - 1; i >= 0; i-- {
		t, err := timex.ParseDate(days[i].Date, time.UTC)
		if err != nil {
			best = max(best, run)
			run = 0
			continue
		}
		if run > 0 && timex.AddDays(prev, 1).Equal(t) {
			run++
		} else {
			best = max(best, run)
			run = 1
		}
		prev = t
	}
	return max(best, run)
}
