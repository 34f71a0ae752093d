package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/assistant/sse"
	"github.com/dmitrijs2005/learnjournal/internal/client/models"
	"github.com/dmitrijs2005/learnjournal/internal/common"
)

type AssistantAPI interface {
	ListEntries(ctx context.Context, query, status string) ([]models.Entry, error)
	StreamAssistant(ctx context.Context, req *assistant.Request) (io.ReadCloser, error)
	InterviewPrep(ctx context.Context, req *assistant.Request) (*assistant.InterviewPrep, error)
}

// AssistantService sends the caller's own entries to the relay.
type AssistantService struct {
	api AssistantAPI
}

func NewAssistantService(api AssistantAPI) *AssistantService {
	return &AssistantService{api: api}
}

// Search streams a smart-search answer for query. onProgress sees the
// accumulated text after each fragment.
func (s *AssistantService) Search(ctx context.Context, query string, onProgress sse.ProgressFunc) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", common.NewValidationError("query", "query is required")
	}
	return s.stream(ctx, assistant.ActionSmartSearch, query, onProgress)
}

func (s *AssistantService) Insights(ctx context.Context, onProgress sse.ProgressFunc) (string, error) {
	return s.stream(ctx, assistant.ActionInsights, "", onProgress)
}

// InterviewPrep asks for interview questions, optionally focused on one
// area.
func (s *AssistantService) InterviewPrep(ctx context.Context, focus string) (*assistant.InterviewPrep, error) {
	req, err := s.request(ctx, assistant.ActionInterviewPrep, strings.TrimSpace(focus))
	if err != nil {
		return nil, err
	}
	return s.api.InterviewPrep(ctx, req)
}

func (s *AssistantService) stream(ctx context.Context, action assistant.Action, query string, onProgress sse.ProgressFunc) (string, error) {
	req, err := s.request(ctx, action, query)
	if err != nil {
		return "", err
	}
	body, err := s.api.StreamAssistant(ctx, req)
	if err != nil {
		return "", err
	}
	return sse.Consume(ctx, body, onProgress)
}

func (s *AssistantService) request(ctx context.Context, action assistant.Action, query string) (*assistant.Request, error) {
	entries, err := s.api.ListEntries(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	req := &assistant.Request{Action: action, Query: query, Entries: ToAssistantEntries(entries)}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// ToAssistantEntries converts listed entries to the relay's entry shape.
func ToAssistantEntries(in []models.Entry) []assistant.Entry {
	out := make([]assistant.Entry, 0, len(in))
	for _, e := range in {
		ae := assistant.Entry{
			ID:      e.ID,
			Title:   e.Title,
			Content: e.Content,
			Summary: e.Summary,
			Status:  e.Status,
		}
		if e.Topic != nil {
			ae.Topic = &assistant.TopicRef{ID: e.Topic.ID, Name: e.Topic.Name}
		}
		for _, t := range e.Tags {
			ae.Tags = append(ae.Tags, assistant.TagRef{ID: t.ID, Name: t.Name})
		}
		if !e.CreatedAt.IsZero() {
			ae.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, ae)
	}
	return out
}
