package streaks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
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

func TestIncrement(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)INSERT\s+INTO\s+learning_streaks.*ON\s+CONFLICT\s+\(user_id,\s*date\)\s+DO\s+UPDATE\s+SET\s+entries_count\s*=\s*learning_streaks\.entries_count\s*\+\s*1`

	mock.ExpectExec(q).WithArgs("u1", "2024-01-07").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Increment(context.Background(), "u1", "2024-01-07"))

	mock.ExpectExec(q).WithArgs("u1", "2024-01-08").WillReturnError(errors.New("down"))
	assert.ErrorContains(t, repo.Increment(context.Background(), "u1", "2024-01-08"), "db error")
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+learning_streaks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+date\s+DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "entries_count"}).
			AddRow(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), 2).
			AddRow(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 1))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.StreakRecord{
		{UserID: "u1", Date: "2024-01-07", EntriesCount: 2},
		{UserID: "u1", Date: "2024-01-05", EntriesCount: 1},
	}, got)
}

func TestList_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+learning_streaks`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "entries_count"}).
			AddRow(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), "many"))

	_, err := repo.List(context.Background(), "u1")
	assert.ErrorContains(t, err, "db error")
}
