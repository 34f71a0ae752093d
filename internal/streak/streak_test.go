package streak

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func recs(dates ...string) []Record {
	out := make([]Record, 0, len(dates))
	for _, d := range dates {
		out = append(out, Record{Date: d, Count: 1})
	}
	return out
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, day("2024-01-07"))

	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 0, s.LongestStreak)
	assert.False(t, s.TodayCompleted)
	assert.Equal(t, 0, s.TotalDays)
	assert.NotNil(t, s.History)
	assert.Empty(t, s.History)
}

func TestCompute_GapBeforeToday(t *testing.T) {
	records := recs("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-07")

	s := Compute(records, day("2024-01-07"))

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 5, s.LongestStreak)
	assert.True(t, s.TodayCompleted)
	assert.Equal(t, 6, s.TotalDays)
	assert.Equal(t, "2024-01-07", s.History[0].Date)
}

func TestCompute_CurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		today   string
		current int
		done    bool
	}{
		{name: "yesterday still counts", dates: []string{"2024-03-08", "2024-03-09"}, today: "2024-03-10", current: 2},
		{name: "two day gap", dates: []string{"2024-03-07", "2024-03-08"}, today: "2024-03-10", current: 0},
		{name: "only today", dates: []string{"2024-03-10"}, today: "2024-03-10", current: 1, done: true},
		{name: "today after gap", dates: []string{"2024-03-01", "2024-03-10"}, today: "2024-03-10", current: 1, done: true},
		{name: "future record ignored", dates: []string{"2024-03-12", "2024-03-10", "2024-03-09"}, today: "2024-03-10", current: 2, done: true},
		{name: "across month", dates: []string{"2024-02-28", "2024-02-29", "2024-03-01"}, today: "2024-03-01", current: 3, done: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(recs(tt.dates...), day(tt.today))
			assert.Equal(t, tt.current, s.CurrentStreak)
			assert.Equal(t, tt.done, s.TodayCompleted)
		})
	}
}

func TestCompute_ContiguousRunEndingToday(t *testing.T) {
	today := day("2024-05-20")
	for n := 1; n <= 40; n++ {
		dates := make([]string, 0, n)
		for i := 0; i < n; i++ {
			dates = append(dates, today.AddDate(0, 0, -i).Format("2006-01-02"))
		}
		s := Compute(recs(dates...), today)
		require.Equal(t, n, s.CurrentStreak, "n=%d", n)
		require.GreaterOrEqual(t, s.LongestStreak, n, "n=%d", n)
		require.Len(t, s.History, min(n, HistoryLimit))
	}
}

func TestCompute_LongestIsOrderIndependent(t *testing.T) {
	records := recs(
		"2023-12-30", "2023-12-31", "2024-01-01",
		"2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13",
		"2024-02-01",
	)
	today := day("2024-02-10")
	want := Compute(records, today)
	assert.Equal(t, 4, want.LongestStreak)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]Record(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Compute(shuffled, today))
	}
}

func TestCompute_DuplicateDatesCollapse(t *testing.T) {
	records := []Record{
		{Date: "2024-01-02", Count: 2},
		{Date: "2024-01-02", Count: 1},
		{Date: "2024-01-01", Count: 1},
	}
	s := Compute(records, day("2024-01-02"))

	assert.Equal(t, 2, s.TotalDays)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, Record{Date: "2024-01-02", Count: 3}, s.History[0])
}

func TestCompute_HistoryIsTruncatedDescending(t *testing.T) {
	today := day("2024-06-30")
	var dates []string
	for i := 0; i < 45; i++ {
		dates = append(dates, today.AddDate(0, 0, -2*i).Format("2006-01-02"))
	}
	s := Compute(recs(dates...), today)

	require.Len(t, s.History, HistoryLimit)
	for i := 1; i < len(s.History); i++ {
		assert.Greater(t, s.History[i-1].Date, s.History[i].Date)
	}
	assert.Equal(t, 45, s.TotalDays)
	assert.Equal(t, 1, s.LongestStreak)
}

func TestWindow(t *testing.T) {
	today := day("2024-01-14")
	records := []Record{
		{Date: "2024-01-14", Count: 2},
		{Date: "2024-01-01", Count: 1},
		{Date: "2023-12-31", Count: 1},
	}

	w := Window(records, today, 0)

	require.Len(t, w, DefaultWindowDays)
	assert.Equal(t, Day{Date: "2024-01-01", Active: true, Count: 1}, w[0])
	assert.Equal(t, Day{Date: "2024-01-14", Active: true, Count: 2}, w[13])
	for _, d := range w[1:13] {
		assert.False(t, d.Active, d.Date)
	}

	w = Window(records, today, 3)
	assert.Equal(t, []Day{
		{Date: "2024-01-12"},
		{Date: "2024-01-13"},
		{Date: "2024-01-14", Active: true, Count: 2},
	}, w)
}
