// Package pipeline sends authenticated requests to the resource server.
//
// Every request goes through three steps. Preflight checks the stored access
// token and, when it is absent or expired and a refresh token exists, waits for
// the refresh coordinator. Send attaches the bearer token. Recovery reacts to a
// 401 by refreshing once and resending the request a single time. Every other
// response is handed back to the caller untouched.
package pipeline

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/credentials"
	"github.com/dmitrijs2005/bookshelf/internal/client/tokens"
	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Refresher exchanges the refresh token for new credentials. stale is the
// access token the caller found unusable; implementations may skip the
// network call when the stored token has already moved on.
type Refresher interface {
	Refresh(ctx context.Context, stale string) (credentials.Credentials, error)
}

type Pipeline struct {
	doer      Doer
	store     credentials.Store
	refresher Refresher
	log       logging.Logger
	now       func() time.Time
}

type Option func(*Pipeline)

// WithLogger sets the logger; the default discards output.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New builds a Pipeline. A nil refresher disables both refresh paths: expired
// tokens are sent as they are and a 401 is terminal.
func New(doer Doer, store credentials.Store, refresher Refresher, opts ...Option) *Pipeline {
	p := &Pipeline{
		doer:      doer,
		store:     store,
		refresher: refresher,
		log:       logging.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Do sends req and returns the server's response.
//
// Errors:
//   - a refresh failure during preflight is returned as is; nothing is sent.
//   - transport failures are *NetworkError.
//   - a 401 that cannot be recovered is *AuthorizationError.
//
// Any response other than 401 is returned unmodified, whatever its status;
// the caller owns its body.
func (p *Pipeline) Do(ctx context.Context, req *Request) (*http.Response, error) {
	ctx = logging.ContextWith(ctx, "request_id", req.Header.Get(common.RequestIDHeaderName))

	token, err := p.preflight(ctx)
	if err != nil {
		return nil, err
	}

	for {
		resp, err := p.send(ctx, req, token)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}

		_, msg := readErrorMessage(resp)
		if req.Retried() || p.refresher == nil {
			p.log.Warn(ctx, "request rejected after retry", "method", req.Method, "url", req.URL)
			return nil, &AuthorizationError{Status: resp.StatusCode, Message: msg}
		}

		p.log.Info(ctx, "request rejected, refreshing credentials", "method", req.Method, "url", req.URL)
		creds, err := p.refresher.Refresh(ctx, token)
		if err != nil {
			return nil, &AuthorizationError{Status: resp.StatusCode, Message: msg, Cause: err}
		}

		req = req.retry()
		token = creds.AccessToken
	}
}

// preflight returns the access token to send, refreshing it first when it
// is unusable and a refresh token is available.
func (p *Pipeline) preflight(ctx context.Context) (string, error) {
	creds, err := p.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if !creds.HasRefreshToken() || p.refresher == nil {
		return creds.AccessToken, nil
	}

	expired, err := tokens.IsExpired(creds.AccessToken, p.now())
	if errors.Is(err, tokens.ErrMalformedToken) {
		p.log.Debug(ctx, "stored access token is malformed", "error", err)
	}
	if !expired {
		return creds.AccessToken, nil
	}

	p.log.Debug(ctx, "access token expired, refreshing before send")
	fresh, err := p.refresher.Refresh(ctx, creds.AccessToken)
	if err != nil {
		return "", err
	}
	return fresh.AccessToken, nil
}

func (p *Pipeline) send(ctx context.Context, req *Request, token string) (*http.Response, error) {
	httpReq, err := req.build(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := p.doer.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}
