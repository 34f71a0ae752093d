// Package streaks stores one activity record per user and calendar day.
package streaks

import (
	"context"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type Repository interface {
	// Increment records activity for date (YYYY-MM-DD), creating the day's
	// record or bumping its entries count.
	Increment(ctx context.Context, userID, date string) error
	// List returns all of userID's records, newest date first.
	List(ctx context.Context, userID string) ([]models.StreakRecord, error)
}
