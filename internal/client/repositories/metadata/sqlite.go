package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
)

const upsertSQL = `
	INSERT INTO metadata (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	values, err := r.GetMany(ctx, key)
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (r *SQLiteRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return values, nil
	}

	query := `SELECT key, value FROM metadata WHERE key IN (` + placeholders(len(keys)) + `)`
	rows, err := r.db.QueryContext(ctx, query, anyArgs(keys)...)
	if err != nil {
		return nil, fmt.Errorf("read metadata %v: %w", keys, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("read metadata %v: %w", keys, err)
		}
		values[key] = string(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read metadata %v: %w", keys, err)
	}
	return values, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSQL, key, []byte(value)); err != nil {
		return fmt.Errorf("write metadata[%s]: %w", key, err)
	}
	return nil
}

// Delete removes every listed key. Absent keys are ignored.
func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM metadata WHERE key IN (` + placeholders(len(keys)) + `)`
	if _, err := r.db.ExecContext(ctx, query, anyArgs(keys)...); err != nil {
		return fmt.Errorf("delete metadata %v: %w", keys, err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func anyArgs(keys []string) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return args
}
