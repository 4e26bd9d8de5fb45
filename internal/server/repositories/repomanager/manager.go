package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filmvault/internal/dbx"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}
