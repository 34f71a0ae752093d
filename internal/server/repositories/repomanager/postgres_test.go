package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFactories(t *testing.T) {
	db := newDB(t)
	var m RepositoryManager = NewPostgresRepositoryManager()

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.RefreshTokens(db))
	assert.NotNil(t, m.Entries(db))
	assert.NotNil(t, m.Topics(db))
	assert.NotNil(t, m.Tags(db))
	assert.NotNil(t, m.Streaks(db))
	assert.NotNil(t, m.Favorites(db))
	assert.NotNil(t, m.Subscriptions(db))
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)
	var gotDir string
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	assert.EqualError(t, err, "boom")
}
