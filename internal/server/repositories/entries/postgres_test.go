package entries

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

var entryCols = []string{
	"id", "user_id", "title", "content", "summary", "topic_id", "status",
	"reference_links", "created_at", "updated_at",
	"t_id", "t_name", "t_color", "t_created_at",
}

func strp(s string) *string { return &s }

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+learning_entries\s*\(user_id,\s*title,\s*content,\s*summary,\s*topic_id,\s*status,\s*reference_links\).*RETURNING\s+id,\s*created_at,\s*updated_at`).
		WithArgs("u1", "Goroutines", "cheap threads", nil, "t1", "active", []byte(`["https://go.dev"]`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("e1", now, now))

	e := &models.Entry{
		UserID:         "u1",
		Title:          "Goroutines",
		Content:        strp("cheap threads"),
		TopicID:        strp("t1"),
		Status:         models.StatusActive,
		ReferenceLinks: []string{"https://go.dev"},
	}
	got, err := repo.Create(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
}

func TestCreate_NilLinksAndForeignKey(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+learning_entries`).
		WithArgs("u1", "x", nil, nil, "missing-topic", "active", []byte(`[]`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Entry{UserID: "u1", Title: "x", TopicID: strp("missing-topic"), Status: "active"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+learning_entries\s+e\s+LEFT\s+JOIN\s+topics\s+t.*WHERE\s+e\.user_id\s*=\s*\$1\s+AND\s+e\.id\s*=\s*\$2`).
		WithArgs("u1", "e1").
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(
			"e1", "u1", "Goroutines", "body", nil, "t1", "review",
			[]byte(`["a","b"]`), now, now,
			"t1", "Go", "#8B9B7E", now,
		))

	got, err := repo.Get(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "Goroutines", got.Title)
	require.NotNil(t, got.Content)
	assert.Equal(t, "body", *got.Content)
	assert.Nil(t, got.Summary)
	assert.Equal(t, []string{"a", "b"}, got.ReferenceLinks)
	require.NotNil(t, got.Topic)
	assert.Equal(t, "Go", got.Topic.Name)
	assert.NotNil(t, got.Tags)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+learning_entries`).WithArgs("u1", "e9").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "e9")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filter  models.EntryFilter
		pattern string
		args    []any
	}{
		{
			name:    "no filter",
			pattern: `(?s)WHERE\s+e\.user_id\s*=\s*\$1\s+ORDER\s+BY\s+e\.updated_at\s+DESC$`,
			args:    []any{"u1"},
		},
		{
			name:    "status all is no filter",
			filter:  models.EntryFilter{Status: "all"},
			pattern: `(?s)WHERE\s+e\.user_id\s*=\s*\$1\s+ORDER\s+BY`,
			args:    []any{"u1"},
		},
		{
			name:    "query and status",
			filter:  models.EntryFilter{Query: " 100%_done ", Status: "review"},
			pattern: `(?s)e\.title\s+ILIKE\s+\$2\s+OR\s+e\.content\s+ILIKE\s+\$2\s+OR\s+e\.summary\s+ILIKE\s+\$2\)\s+AND\s+e\.status\s*=\s*\$3\s+ORDER\s+BY\s+e\.updated_at\s+DESC`,
			args:    []any{"u1", `%100\%\_done%`, "review"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			now := time.Now()

			mock.ExpectQuery(tt.pattern).
				WithArgs(toValues(tt.args)...).
				WillReturnRows(sqlmock.NewRows(entryCols).
					AddRow("e2", "u1", "B", nil, "sum", nil, "review", []byte(`[]`), now, now, nil, nil, nil, nil).
					AddRow("e1", "u1", "A", nil, nil, nil, "review", nil, now, now, nil, nil, nil, nil))

			got, err := repo.List(context.Background(), "u1", tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "e2", got[0].ID)
			assert.Nil(t, got[0].Topic)
			assert.Equal(t, []string{}, got[1].ReferenceLinks)
		})
	}
}

func toValues(in []any) []driver.Value {
	out := make([]driver.Value, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+learning_entries`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), "u1", models.EntryFilter{})
	assert.ErrorContains(t, err, "boom")
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)UPDATE\s+learning_entries\s+SET\s+title\s*=\s*\$3.*updated_at\s*=\s*now\(\)\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`

	e := &models.Entry{ID: "e1", UserID: "u1", Title: "T", Status: "completed", ReferenceLinks: []string{"x"}}

	mock.ExpectExec(q).
		WithArgs("u1", "e1", "T", nil, nil, nil, "completed", []byte(`["x"]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), e))

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), e), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `DELETE\s+FROM\s+learning_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`

	mock.ExpectExec(q).WithArgs("u1", "e1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u1", "e1"))

	mock.ExpectExec(q).WithArgs("u2", "e1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u2", "e1"), common.ErrorNotFound)
}

func TestSetTags(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+entry_tags\s+WHERE\s+entry_id\s*=\s*\$1`).WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT\s+INTO\s+entry_tags`).WithArgs("e1", "t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+entry_tags`).WithArgs("e1", "t2").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetTags(context.Background(), "e1", []string{"t1", "t2"}))
}

func TestSetTags_InsertError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+entry_tags`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT\s+INTO\s+entry_tags`).WillReturnError(errors.New("fk"))

	assert.ErrorContains(t, repo.SetTags(context.Background(), "e1", []string{"t1"}), "db error")
}

func TestTagsForEntry(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+entry_tags\s+et\s+JOIN\s+tags\s+t.*WHERE\s+et\.entry_id\s*=\s*\$1`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
			AddRow("t1", "u1", "concurrency", now).
			AddRow("t2", "u1", "go", now))

	tags, err := repo.TagsForEntry(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "concurrency", tags[0].Name)
}

func TestTagsByEntry(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)JOIN\s+learning_entries\s+e.*WHERE\s+e\.user_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"entry_id", "id", "user_id", "name", "created_at"}).
			AddRow("e1", "t1", "u1", "a", now).
			AddRow("e2", "t1", "u1", "a", now).
			AddRow("e1", "t2", "u1", "b", now))

	got, err := repo.TagsByEntry(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got["e1"], 2)
	assert.Len(t, got["e2"], 1)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}

func TestMalformedID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	badUUID := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}

	mock.ExpectQuery(`FROM\s+learning_entries`).WithArgs("u1", "not-a-uuid").WillReturnError(badUUID)
	_, err := repo.Get(context.Background(), "u1", "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectExec(`UPDATE\s+learning_entries`).WillReturnError(badUUID)
	err = repo.Update(context.Background(), &models.Entry{UserID: "u1", ID: "not-a-uuid", Title: "x", Status: models.StatusActive})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectExec(`DELETE\s+FROM\s+learning_entries`).WithArgs("u1", "not-a-uuid").WillReturnError(badUUID)
	err = repo.Delete(context.Background(), "u1", "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
