package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
)

type TopicService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTopicService(db *sql.DB, m repomanager.RepositoryManager) *TopicService {
	return &TopicService{db: db, repomanager: m}
}

func (s *TopicService) List(ctx context.Context, userID string) ([]models.Topic, error) {
	return s.repomanager.Topics(s.db).List(ctx, userID)
}

// Create adds a topic; an empty color falls back to models.DefaultTopicColor.
func (s *TopicService) Create(ctx context.Context, userID, name, color string) (*models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("name", "name is required")
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = models.DefaultTopicColor
	}
	return s.repomanager.Topics(s.db).Create(ctx, &models.Topic{UserID: userID, Name: name, Color: color})
}

func (s *TopicService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Topics(s.db).Delete(ctx, userID, id)
}
