// Package auth owns the session lifecycle on the client: login, logout and
// the single-flight exchange of a refresh token for new credentials.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/bookshelf/internal/client/pipeline"
)

// TokenPair is what the server returns from login and refresh. RefreshToken
// is empty when the server does not rotate it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// refreshRequest is the one request shape used for every refresh call.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// API calls the unauthenticated auth endpoints directly, bypassing the
// request pipeline.
type API struct {
	doer       pipeline.Doer
	loginURL   string
	refreshURL string
	logoutURL  string
}

func NewAPI(doer pipeline.Doer, loginURL, refreshURL, logoutURL string) *API {
	return &API{doer: doer, loginURL: loginURL, refreshURL: refreshURL, logoutURL: logoutURL}
}

// Login exchanges an email and password for a token pair.
func (a *API) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var pair TokenPair
	if err := a.post(ctx, a.loginURL, loginRequest{Email: email, Password: password}, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Refresh exchanges refreshToken for a new token pair.
func (a *API) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	var pair TokenPair
	if err := a.post(ctx, a.refreshURL, refreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Logout asks the server to revoke refreshToken.
func (a *API) Logout(ctx context.Context, refreshToken string) error {
	return a.post(ctx, a.logoutURL, refreshRequest{RefreshToken: refreshToken}, nil)
}

func (a *API) post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.doer.Do(req)
	if err != nil {
		return &pipeline.NetworkError{Err: err}
	}
	if err := pipeline.CheckResponse(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", url, err)
	}
	return nil
}
