package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/migrations"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager hands out the postgres repositories. Each call
// binds a fresh repository to db, which may be the pool or a transaction.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Books(db dbx.DBTX) books.Repository {
	return books.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Catalog(db dbx.DBTX) catalog.Repository {
	return catalog.NewPostgresRepository(db)
}

// migrateUp is replaced in tests.
var migrateUp = func(ctx context.Context, db *sql.DB, fsys fs.FS) ([]int64, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, err
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// RunMigrations brings the schema up to date with the embedded migrations
// and returns the versions applied by this call.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) ([]int64, error) {
	applied, err := migrateUp(ctx, db, migrations.Migrations)
	if err != nil {
		return nil, fmt.Errorf("migrate up: %w", err)
	}
	return applied, nil
}
