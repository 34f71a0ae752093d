package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/config"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnjournal/internal/streak"
)

// MaxWindowDays bounds the trailing activity view.
const MaxWindowDays = 366

type StreakService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       dayClock
}

func NewStreakService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *StreakService {
	return &StreakService{db: db, repomanager: m, clock: newDayClock(cfg)}
}

func (s *StreakService) records(ctx context.Context, userID string) ([]streak.Record, error) {
	rows, err := s.repomanager.Streaks(s.db).List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]streak.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, streak.Record{Date: r.Date, Count: r.EntriesCount})
	}
	return out, nil
}

// Stats computes userID's streak summary as of today.
func (s *StreakService) Stats(ctx context.Context, userID string) (streak.Stats, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return streak.Stats{}, err
	}
	return streak.Compute(records, s.clock.today()), nil
}

// Window returns the last days calendar days, oldest first. Zero means
// streak.DefaultWindowDays.
func (s *StreakService) Window(ctx context.Context, userID string, days int) ([]streak.Day, error) {
	if days < 0 || days > MaxWindowDays {
		return nil, common.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", MaxWindowDays))
	}
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}
	return streak.Window(records, s.clock.today(), days), nil
}
