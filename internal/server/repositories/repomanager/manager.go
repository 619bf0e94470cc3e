// Package repomanager vends repositories bound to either the pool or a
// transaction, and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) ([]int64, error)
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Books(db dbx.DBTX) books.Repository
	Catalog(db dbx.DBTX) catalog.Repository
}
