// Package entries provides the PostgreSQL-backed repository for learning
// journal entries.
package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectEntry = `
	SELECT e.id, e.user_id, e.title, e.content, e.summary, e.topic_id, e.status,
	       e.reference_links, e.created_at, e.updated_at,
	       t.id, t.name, t.color, t.created_at
	FROM learning_entries e
	LEFT JOIN topics t ON t.id = e.topic_id
`

func marshalLinks(links []string) ([]byte, error) {
	if links == nil {
		links = []string{}
	}
	return json.Marshal(links)
}

// Create inserts the entry and fills ID, CreatedAt and UpdatedAt.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	links, err := marshalLinks(entry.ReferenceLinks)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO learning_entries (user_id, title, content, summary, topic_id, status, reference_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Title, entry.Content, entry.Summary, entry.TopicID, entry.Status, links,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Entry, error) {
	query := selectEntry + ` WHERE e.user_id = $1 AND e.id = $2`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// List returns userID's entries, most recently updated first.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error) {
	var (
		where = []string{"e.user_id = $1"}
		args  = []any{userID}
	)

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(e.title ILIKE $%d OR e.content ILIKE $%d OR e.summary ILIKE $%d)", n, n, n))
	}
	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("e.status = $%d", len(args)))
	}

	query := selectEntry + " WHERE " + strings.Join(where, " AND ") + " ORDER BY e.updated_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []*models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update overwrites the mutable fields and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	links, err := marshalLinks(entry.ReferenceLinks)
	if err != nil {
		return err
	}

	query := `
		UPDATE learning_entries
		SET title = $3, content = $4, summary = $5, topic_id = $6, status = $7,
		    reference_links = $8, updated_at = now()
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.ID, entry.Title, entry.Content, entry.Summary, entry.TopicID, entry.Status, links)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidText(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM learning_entries WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) SetTags(ctx context.Context, entryID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = $1`, entryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for _, tagID := range tagIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO entry_tags (entry_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, entryID, tagID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) TagsForEntry(ctx context.Context, entryID string) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.created_at
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *PostgresRepository) TagsByEntry(ctx context.Context, userID string) (map[string][]models.Tag, error) {
	query := `
		SELECT et.entry_id, t.id, t.user_id, t.name, t.created_at
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id
		JOIN learning_entries e ON e.id = et.entry_id
		WHERE e.user_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Tag)
	for rows.Next() {
		var (
			entryID string
			t       models.Tag
		)
		if err := rows.Scan(&entryID, &t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[entryID] = append(out[entryID], t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var (
		e                              models.Entry
		links                          []byte
		topicID, topicName, topicColor sql.NullString
		topicCreated                   sql.NullTime
	)
	err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Summary, &e.TopicID, &e.Status,
		&links, &e.CreatedAt, &e.UpdatedAt,
		&topicID, &topicName, &topicColor, &topicCreated)
	if err != nil {
		return nil, err
	}

	e.ReferenceLinks = []string{}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &e.ReferenceLinks); err != nil {
			return nil, fmt.Errorf("decode reference_links: %w", err)
		}
	}
	if topicID.Valid {
		e.Topic = &models.Topic{
			ID:        topicID.String,
			UserID:    e.UserID,
			Name:      topicName.String,
			Color:     topicColor.String,
			CreatedAt: topicCreated.Time,
		}
	}
	e.Tags = []models.Tag{}
	return &e, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
