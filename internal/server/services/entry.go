package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/config"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnjournal/internal/timex"
)

// EntryInput is the writable part of an entry. On update a nil TagIDs
// leaves the tag set untouched while an empty slice clears it.
type EntryInput struct {
	Title          string    `json:"title"`
	Content        *string   `json:"content"`
	Summary        *string   `json:"summary"`
	TopicID        *string   `json:"topic_id"`
	Status         string    `json:"status"`
	ReferenceLinks []string  `json:"reference_links"`
	TagIDs         *[]string `json:"tagIds"`
}

type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       dayClock
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *EntryService {
	return &EntryService{db: db, repomanager: m, clock: newDayClock(cfg)}
}

func validStatus(s string) bool {
	switch s {
	case models.StatusActive, models.StatusImportant, models.StatusReview, models.StatusCompleted:
		return true
	}
	return false
}

func (in *EntryInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return common.NewValidationError("title", "title is required")
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !validStatus(in.Status) {
		return common.NewValidationError("status", fmt.Sprintf("unknown status %q", in.Status))
	}
	if in.TopicID != nil && *in.TopicID == "" {
		in.TopicID = nil
	}
	if in.TagIDs != nil {
		ids := dedupe(*in.TagIDs)
		in.TagIDs = &ids
	}
	return nil
}

// dedupe drops empty and repeated ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkRefs verifies that the topic and every tag belong to userID.
func (s *EntryService) checkRefs(ctx context.Context, tx dbx.DBTX, userID string, in *EntryInput) error {
	if in.TopicID != nil {
		if _, err := s.repomanager.Topics(tx).Get(ctx, userID, *in.TopicID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewValidationError("topic_id", "unknown topic")
			}
			return err
		}
	}
	if in.TagIDs != nil {
		tags := s.repomanager.Tags(tx)
		for _, id := range *in.TagIDs {
			if _, err := tags.Get(ctx, userID, id); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return common.NewValidationError("tagIds", fmt.Sprintf("unknown tag %q", id))
				}
				return err
			}
		}
	}
	return nil
}

// Create stores a new entry, attaches its tags and counts it towards
// today's streak record, all in one transaction.
func (s *EntryService) Create(ctx context.Context, userID string, in EntryInput) (*models.Entry, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var created *models.Entry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkRefs(ctx, tx, userID, &in); err != nil {
			return err
		}

		repo := s.repomanager.Entries(tx)
		e, err := repo.Create(ctx, &models.Entry{
			UserID:         userID,
			Title:          in.Title,
			Content:        in.Content,
			Summary:        in.Summary,
			TopicID:        in.TopicID,
			Status:         in.Status,
			ReferenceLinks: in.ReferenceLinks,
		})
		if err != nil {
			return fmt.Errorf("error creating entry: %w", err)
		}
		if in.TagIDs != nil && len(*in.TagIDs) > 0 {
			if err := repo.SetTags(ctx, e.ID, *in.TagIDs); err != nil {
				return fmt.Errorf("error tagging entry: %w", err)
			}
		}
		if err := s.repomanager.Streaks(tx).Increment(ctx, userID, timex.FormatDate(s.clock.today())); err != nil {
			return fmt.Errorf("error updating streak: %w", err)
		}

		created, err = s.load(ctx, tx, userID, e.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id string) (*models.Entry, error) {
	return s.load(ctx, s.db, userID, id)
}

func (s *EntryService) load(ctx context.Context, db dbx.DBTX, userID, id string) (*models.Entry, error) {
	repo := s.repomanager.Entries(db)
	e, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tags, err := repo.TagsForEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Tags = tags
	return e, nil
}

// List returns userID's entries with topics and tags resolved.
func (s *EntryService) List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error) {
	if filter.Status != "" && filter.Status != "all" && !validStatus(filter.Status) {
		return nil, common.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}

	repo := s.repomanager.Entries(s.db)
	list, err := repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	byEntry, err := repo.TagsByEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if tags, ok := byEntry[e.ID]; ok {
			e.Tags = tags
		} else {
			e.Tags = []models.Tag{}
		}
	}
	return list, nil
}

func (s *EntryService) Update(ctx context.Context, userID, id string, in EntryInput) (*models.Entry, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var updated *models.Entry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)
		current, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := s.checkRefs(ctx, tx, userID, &in); err != nil {
			return err
		}

		current.Title = in.Title
		current.Content = in.Content
		current.Summary = in.Summary
		current.TopicID = in.TopicID
		current.Topic = nil
		current.Status = in.Status
		current.ReferenceLinks = in.ReferenceLinks
		if err := repo.Update(ctx, current); err != nil {
			return fmt.Errorf("error updating entry: %w", err)
		}
		if in.TagIDs != nil {
			if err := repo.SetTags(ctx, id, *in.TagIDs); err != nil {
				return fmt.Errorf("error tagging entry: %w", err)
			}
		}

		updated, err = s.load(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the entry; its tag associations go with it.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Entries(s.db).Delete(ctx, userID, id)
}
