package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
)

type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m}
}

// NormalizeTagName is the stored form of a tag name.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *TagService) List(ctx context.Context, userID string) ([]models.Tag, error) {
	return s.repomanager.Tags(s.db).List(ctx, userID)
}

// Create returns the user's tag with the normalized name, creating it when
// it does not exist yet. A concurrent insert of the same name is resolved
// by reading back the winner.
func (s *TagService) Create(ctx context.Context, userID, name string) (*models.Tag, error) {
	name = NormalizeTagName(name)
	if name == "" {
		return nil, common.NewValidationError("name", "name is required")
	}

	repo := s.repomanager.Tags(s.db)
	existing, err := repo.GetByName(ctx, userID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	tag, err := repo.Create(ctx, &models.Tag{UserID: userID, Name: name})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return repo.GetByName(ctx, userID, name)
	}
	return tag, err
}

func (s *TagService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Tags(s.db).Delete(ctx, userID, id)
}
