// Package services contains application services for the bookshelf CLI.
// This file defines the authentication service: login, logout and a
// session status report built from the stored credentials.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/credentials"
	"github.com/dmitrijs2005/bookshelf/internal/client/tokens"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist both tokens.
//   - Logout: revoke the refresh token when possible and wipe local tokens.
//   - Status: report what the local credentials allow without a network call.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
	Ping(ctx context.Context) error
}

// Session is the subset of auth.Session the service drives.
type Session interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// Status summarises the stored credentials.
type Status struct {
	LoggedIn   bool
	CanRefresh bool
	// ExpiresAt is zero when the access token is absent or malformed.
	ExpiresAt time.Time
	Expired   bool
}

type authService struct {
	session Session
	store   credentials.Store
	client  client.Client
	now     func() time.Time
}

// NewAuthService constructs an AuthService over the session, the store it
// writes to and the API client used for liveness checks.
func NewAuthService(session Session, store credentials.Store, c client.Client) AuthService {
	return &authService{session: session, store: store, client: c, now: time.Now}
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	return a.session.Login(ctx, email, password)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Status decodes the access token locally. A malformed token is reported as
// expired rather than as an error.
func (a *authService) Status(ctx context.Context) (Status, error) {
	creds, err := a.store.Get(ctx)
	if err != nil {
		return Status{}, err
	}

	st := Status{LoggedIn: !creds.Empty(), CanRefresh: creds.HasRefreshToken()}
	if creds.AccessToken == "" {
		st.Expired = st.LoggedIn
		return st, nil
	}

	claims, err := tokens.Decode(creds.AccessToken)
	if err != nil {
		st.Expired = true
		return st, nil
	}
	st.ExpiresAt = claims.ExpiresAt
	st.Expired, _ = tokens.IsExpired(creds.AccessToken, a.now())
	return st, nil
}
