package entries

import (
	"context"

	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

// Repository stores learning entries and their tag associations. Every
// read and write is scoped by the owning user; rows of other users behave
// as missing (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Get(ctx context.Context, userID, id string) (*models.Entry, error)
	List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, userID, id string) error

	// SetTags replaces the entry's tag set.
	SetTags(ctx context.Context, entryID string, tagIDs []string) error
	// TagsForEntry returns the entry's tags ordered by name.
	TagsForEntry(ctx context.Context, entryID string) ([]models.Tag, error)
	// TagsByEntry returns the tags of all of userID's entries keyed by entry id.
	TagsByEntry(ctx context.Context, userID string) (map[string][]models.Tag, error)
}
