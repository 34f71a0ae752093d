// Package topics stores the per-user topics entries are filed under.
package topics

import (
	"context"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.Topic, error)
	Get(ctx context.Context, userID, id string) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) (*models.Topic, error)
	// Delete removes the topic; entries keep existing with a null topic.
	Delete(ctx context.Context, userID, id string) error
}
