package favorites

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.FavoriteQuestion, error) {
	query := `
		SELECT id, user_id, question, difficulty, category, why_asked, sample_answer,
		       key_points, follow_up, source_topic, created_at
		FROM favorite_questions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.FavoriteQuestion{}
	for rows.Next() {
		var (
			q         models.FavoriteQuestion
			keyPoints []byte
		)
		if err := rows.Scan(&q.ID, &q.UserID, &q.Question, &q.Difficulty, &q.Category, &q.WhyAsked,
			&q.SampleAnswer, &keyPoints, &q.FollowUp, &q.SourceTopic, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		q.KeyPoints = []string{}
		if len(keyPoints) > 0 {
			if err := json.Unmarshal(keyPoints, &q.KeyPoints); err != nil {
				return nil, fmt.Errorf("decode key_points: %w", err)
			}
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, q *models.FavoriteQuestion) (*models.FavoriteQuestion, error) {
	if q.KeyPoints == nil {
		q.KeyPoints = []string{}
	}
	keyPoints, err := json.Marshal(q.KeyPoints)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO favorite_questions
		    (user_id, question, difficulty, category, why_asked, sample_answer, key_points, follow_up, source_topic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		q.UserID, q.Question, q.Difficulty, q.Category, q.WhyAsked, q.SampleAnswer, keyPoints, q.FollowUp, q.SourceTopic,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return q, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorite_questions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
