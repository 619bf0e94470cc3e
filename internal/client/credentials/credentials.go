// Package credentials holds the session's access and refresh tokens.
//
// A Store performs no validation and no network calls. It is written by
// login, by the refresh coordinator and by logout; everything else only reads.
package credentials

import (
	"context"
	"sync"
)

// Credentials is the current session. An empty field means the token is absent.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// HasRefreshToken reports whether a refresh can be attempted.
func (c Credentials) HasRefreshToken() bool { return c.RefreshToken != "" }

// Empty reports whether both tokens are absent (logged out).
func (c Credentials) Empty() bool { return c.AccessToken == "" && c.RefreshToken == "" }

// Store is the single owner of Credentials. Writes are last-writer-wins.
type Store interface {
	Get(ctx context.Context) (Credentials, error)
	Set(ctx context.Context, c Credentials) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps Credentials in process memory only.
type MemoryStore struct {
	mu sync.RWMutex
	c  Credentials
}

// NewMemoryStore returns a store seeded with initial.
func NewMemoryStore(initial Credentials) *MemoryStore {
	return &MemoryStore{c: initial}
}

func (s *MemoryStore) Get(_ context.Context) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c, nil
}

func (s *MemoryStore) Set(_ context.Context, c Credentials) error {
	s.mu.Lock()
	s.c = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.c = Credentials{}
	s.mu.Unlock()
	return nil
}
