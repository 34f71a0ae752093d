// Package subscriptions stores browser push subscriptions keyed by
// (user, endpoint).
package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

type Repository interface {
	// Upsert inserts the subscription or refreshes the keys of an existing
	// (user, endpoint) pair.
	Upsert(ctx context.Context, sub *models.PushSubscription) (*models.PushSubscription, error)
	// Delete removes the (user, endpoint) pair; a missing pair is not an error.
	Delete(ctx context.Context, userID, endpoint string) error
	ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error)
	// ListWithoutActivity returns every subscription whose user has no
	// streak record on date.
	ListWithoutActivity(ctx context.Context, date string) ([]models.PushSubscription, error)
}
