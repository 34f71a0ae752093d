package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
)

// FavoriteInput is a generated interview question the user wants to keep.
type FavoriteInput struct {
	Question    assistant.Question `json:"question"`
	SourceTopic *string            `json:"source_topic"`
}

type FavoriteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFavoriteService(db *sql.DB, m repomanager.RepositoryManager) *FavoriteService {
	return &FavoriteService{db: db, repomanager: m}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.FavoriteQuestion, error) {
	return s.repomanager.Favorites(s.db).List(ctx, userID)
}

// Add stores a snapshot of the question. Later edits to the journal do
// not change saved favorites.
func (s *FavoriteService) Add(ctx context.Context, userID string, in FavoriteInput) (*models.FavoriteQuestion, error) {
	q := in.Question
	if strings.TrimSpace(q.Question) == "" {
		return nil, common.NewValidationError("question", "question is required")
	}
	if !q.Difficulty.Valid() {
		return nil, common.NewValidationError("difficulty", "unknown difficulty")
	}
	if !q.Category.Valid() {
		return nil, common.NewValidationError("category", "unknown category")
	}
	if in.SourceTopic != nil && strings.TrimSpace(*in.SourceTopic) == "" {
		in.SourceTopic = nil
	}

	keyPoints := q.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return s.repomanager.Favorites(s.db).Create(ctx, &models.FavoriteQuestion{
		UserID:       userID,
		Question:     q.Question,
		Difficulty:   string(q.Difficulty),
		Category:     string(q.Category),
		WhyAsked:     q.WhyAsked,
		SampleAnswer: q.SampleAnswer,
		KeyPoints:    keyPoints,
		FollowUp:     q.FollowUp,
		SourceTopic:  in.SourceTopic,
	})
}

func (s *FavoriteService) Remove(ctx context.Context, userID, id string) error {
	return s.repomanager.Favorites(s.db).Delete(ctx, userID, id)
}
