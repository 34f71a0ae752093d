package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/streaks"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/tags"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/topics"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX so that services
// can use the same set against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Entries(db dbx.DBTX) entries.Repository
	Topics(db dbx.DBTX) topics.Repository
	Tags(db dbx.DBTX) tags.Repository
	Streaks(db dbx.DBTX) streaks.Repository
	Favorites(db dbx.DBTX) favorites.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
}
