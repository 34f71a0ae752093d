// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/migrations"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/streaks"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/tags"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/topics"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Topics(db dbx.DBTX) topics.Repository {
	return topics.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Streaks(db dbx.DBTX) streaks.Repository {
	return streaks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Favorites(db dbx.DBTX) favorites.Repository {
	return favorites.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Subscriptions(db dbx.DBTX) subscriptions.Repository {
	return subscriptions.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
