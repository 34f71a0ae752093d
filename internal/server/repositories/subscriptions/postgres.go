package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, sub *models.PushSubscription) (*models.PushSubscription, error) {
	query := `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, endpoint)
		DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sub, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, endpoint string) error {
	query := `DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, endpoint); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	query := `
		SELECT id, user_id, endpoint, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListWithoutActivity(ctx context.Context, date string) ([]models.PushSubscription, error) {
	query := `
		SELECT s.id, s.user_id, s.endpoint, s.p256dh, s.auth, s.created_at
		FROM push_subscriptions s
		WHERE NOT EXISTS (
			SELECT 1 FROM learning_streaks l
			WHERE l.user_id = s.user_id AND l.date = $1
		)
		ORDER BY s.user_id
	`
	return r.list(ctx, query, date)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.PushSubscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.PushSubscription{}
	for rows.Next() {
		var s models.PushSubscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
