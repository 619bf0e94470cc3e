package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bookshelf/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
)

// Keys under which the tokens live in the metadata table.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// PersistentStore keeps Credentials in the local sqlite metadata table.
// Both keys are written in one transaction so a reader never sees a new
// access token paired with a stale refresh token.
type PersistentStore struct {
	mu sync.Mutex
	db *sql.DB
}

func NewPersistentStore(db *sql.DB) *PersistentStore {
	return &PersistentStore{db: db}
}

func (s *PersistentStore) Get(ctx context.Context) (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := metadata.NewSQLiteRepository(s.db).GetMany(ctx, AccessTokenKey, RefreshTokenKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	return Credentials{AccessToken: values[AccessTokenKey], RefreshToken: values[RefreshTokenKey]}, nil
}

func (s *PersistentStore) Set(ctx context.Context, c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := putOrDelete(ctx, repo, AccessTokenKey, c.AccessToken); err != nil {
			return err
		}
		return putOrDelete(ctx, repo, RefreshTokenKey, c.RefreshToken)
	})
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (s *PersistentStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func putOrDelete(ctx context.Context, repo metadata.Repository, key, value string) error {
	if value == "" {
		return repo.Delete(ctx, key)
	}
	return repo.Set(ctx, key, value)
}
