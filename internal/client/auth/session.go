package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/client/credentials"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
)

// Authenticator performs the login and logout calls.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Session starts and ends the single logical session of this client.
type Session struct {
	store credentials.Store
	api   Authenticator
	log   logging.Logger
}

func NewSession(store credentials.Store, api Authenticator, log logging.Logger) *Session {
	return &Session{store: store, api: api, log: log}
}

// Login authenticates and replaces whatever credentials were stored.
func (s *Session) Login(ctx context.Context, email, password string) error {
	pair, err := s.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if pair.AccessToken == "" {
		return fmt.Errorf("login: %w", ErrEmptyAccessToken)
	}
	creds := credentials.Credentials{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	if err := s.store.Set(ctx, creds); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Logout revokes the refresh token on the server when possible and always
// clears local credentials. A failed revoke is logged, not returned.
func (s *Session) Logout(ctx context.Context) error {
	creds, err := s.store.Get(ctx)
	if err != nil {
		return err
	}
	if creds.HasRefreshToken() {
		if err := s.api.Logout(ctx, creds.RefreshToken); err != nil {
			s.log.Warn(ctx, "server logout failed", "error", err)
		}
	}
	return s.store.Clear(ctx)
}

// LoggedIn reports whether any credential is stored.
func (s *Session) LoggedIn(ctx context.Context) (bool, error) {
	creds, err := s.store.Get(ctx)
	if err != nil {
		return false, err
	}
	return !creds.Empty(), nil
}
