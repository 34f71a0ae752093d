// Package favorites stores saved interview questions.
package favorites

import (
	"context"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type Repository interface {
	// List returns userID's favorites, newest first.
	List(ctx context.Context, userID string) ([]models.FavoriteQuestion, error)
	Create(ctx context.Context, q *models.FavoriteQuestion) (*models.FavoriteQuestion, error)
	Delete(ctx context.Context, userID, id string) error
}
