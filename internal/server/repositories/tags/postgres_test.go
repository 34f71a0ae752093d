package tags

import (
	"context"
	"database/sql"
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

var cols = []string{"id", "user_id", "name", "created_at"}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)FROM\s+tags\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+name`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("g1", "u1", "go", time.Now()))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "go", got[0].Name)
}

func TestGetByName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `FROM\s+tags\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+name\s*=\s*\$2`

	mock.ExpectQuery(q).WithArgs("u1", "go").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("g1", "u1", "go", time.Now()))
	got, err := repo.GetByName(context.Background(), "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.ID)

	mock.ExpectQuery(q).WithArgs("u1", "rust").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByName(context.Background(), "u1", "rust")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+tags\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`).
		WithArgs("u1", "g1").WillReturnError(errors.New("down"))

	_, err := repo.Get(context.Background(), "u1", "g1")
	assert.ErrorContains(t, err, "db error")
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)INSERT\s+INTO\s+tags\s*\(user_id,\s*name\).*RETURNING\s+id,\s*created_at`

	mock.ExpectQuery(q).WithArgs("u1", "go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("g1", time.Now()))
	got, err := repo.Create(context.Background(), &models.Tag{UserID: "u1", Name: "go"})
	require.NoError(t, err)
	assert.Equal(t, "g1", got.ID)

	mock.ExpectQuery(q).WithArgs("u1", "go").WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = repo.Create(context.Background(), &models.Tag{UserID: "u1", Name: "go"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `DELETE\s+FROM\s+tags\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`

	mock.ExpectExec(q).WithArgs("u1", "g1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u1", "g1"))

	mock.ExpectExec(q).WithArgs("u1", "g1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "g1"), common.ErrorNotFound)
}

func TestMalformedID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	badUUID := &pgconn.PgError{Code: "22P02"}

	mock.ExpectQuery(`FROM\s+tags`).WithArgs("u1", "golang").WillReturnError(badUUID)
	_, err := repo.Get(context.Background(), "u1", "golang")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectExec(`DELETE\s+FROM\s+tags`).WithArgs("u1", "golang").WillReturnError(badUUID)
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "golang"), common.ErrorNotFound)
}
