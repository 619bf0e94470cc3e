package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

const (
	insertUserSQL = `
		INSERT INTO users (email, password_hash, salt)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	selectUserByEmailSQL = `
		SELECT id, email, password_hash, salt, created_at, last_login_at
		FROM users
		WHERE email = $1`

	touchLastLoginSQL = `UPDATE users SET last_login_at = $2 WHERE id = $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.db.QueryRowContext(ctx, insertUserSQL, user.Email, user.PasswordHash, user.Salt).
		Scan(&user.ID, &user.CreatedAt)
	switch {
	case err == nil:
		return user, nil
	case dbx.IsUniqueViolation(err):
		return nil, common.ErrorAlreadyExists
	default:
		return nil, fmt.Errorf("insert user: %w", err)
	}
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var (
		u         models.User
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, touchLastLoginSQL, userID, at)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
