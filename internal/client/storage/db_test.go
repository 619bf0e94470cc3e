package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesMetadataTable(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "bookshelf.db")

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))
	require.True(t, tableExists(t, db, "goose_db_version"))
	require.True(t, tableExists(t, db, "metadata"))
}

func TestOpen_InMemory(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES ('k', 'v')`)
	require.NoError(t, err)

	var got string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'k'`).Scan(&got))
	require.Equal(t, "v", got)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "bookshelf.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "metadata"))
}

func TestOpen_MigrationErrorClosesDB(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	db, err := Open(context.Background(), ":memory:")
	require.Error(t, err)
	require.Nil(t, db)
	require.Contains(t, err.Error(), "boom")
}
