package refreshtokens

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

const (
	insertTokenSQL = `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`

	selectTokenSQL = `
		SELECT id, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1`

	deleteTokenSQL = `DELETE FROM refresh_tokens WHERE token_hash = $1`

	deleteExpiredSQL = `DELETE FROM refresh_tokens WHERE expires_at <= $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// digest is the form a token takes at rest.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, insertTokenSQL, userID, digest(token), expiresAt); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{Token: token}
	err := r.db.QueryRowContext(ctx, selectTokenSQL, digest(token)).
		Scan(&rt.ID, &rt.UserID, &rt.Expires, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select refresh token: %w", err)
	}
	return rt, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) (bool, error) {
	n, err := r.exec(ctx, deleteTokenSQL, digest(token))
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.exec(ctx, deleteExpiredSQL, now)
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
