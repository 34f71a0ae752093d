package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/learnjournal/internal/client/migrations"
	"github.com/dmitrijs2005/learnjournal/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

var gooseUpContext = goose.UpContext

// State is the CLI's local sqlite database.
type State struct {
	DB       *sql.DB
	Metadata metadata.Repository
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}

// OpenState opens (creating if needed) the state file at dsn and brings
// its schema up to date.
func OpenState(ctx context.Context, dsn string) (*State, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("state migrations: %w", err)
	}

	return &State{DB: db, Metadata: metadata.NewSQLiteRepository(db)}, nil
}

func (s *State) Close() error {
	return s.DB.Close()
}
