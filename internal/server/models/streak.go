package models

// StreakRecord marks a day with journaling activity. Date is YYYY-MM-DD.
type StreakRecord struct {
	UserID       string
	Date         string
	EntriesCount int
}
