package streaks

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/timex"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Increment(ctx context.Context, userID, date string) error {
	query := `
		INSERT INTO learning_streaks (user_id, date, entries_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, date)
		DO UPDATE SET entries_count = learning_streaks.entries_count + 1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, date); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.StreakRecord, error) {
	query := `
		SELECT date, entries_count
		FROM learning_streaks
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.StreakRecord{}
	for rows.Next() {
		var (
			day   time.Time
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		// DATE columns come back as UTC midnight.
		result = append(result, models.StreakRecord{UserID: userID, Date: timex.FormatDate(day.UTC()), EntriesCount: count})
	}
	return result, rows.Err()
}
