package tags

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM tags
		WHERE user_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Tag, error) {
	return r.getOne(ctx, `SELECT id, user_id, name, created_at FROM tags WHERE user_id = $1 AND id = $2`, userID, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, userID, name string) (*models.Tag, error) {
	return r.getOne(ctx, `SELECT id, user_id, name, created_at FROM tags WHERE user_id = $1 AND name = $2`, userID, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Tag, error) {
	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query := `
		INSERT INTO tags (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, tag.UserID, tag.Name).Scan(&tag.ID, &tag.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE user_id = $1 AND id = $2`, userID, id)
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
