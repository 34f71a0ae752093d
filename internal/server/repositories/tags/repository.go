// Package tags stores per-user tags. Names are stored normalized and are
// unique per user.
package tags

import (
	"context"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.Tag, error)
	Get(ctx context.Context, userID, id string) (*models.Tag, error)
	GetByName(ctx context.Context, userID, name string) (*models.Tag, error)
	// Create returns common.ErrorAlreadyExists when the name is taken.
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, userID, id string) error
}
