package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/credentials"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// TokenRefresher performs the refresh network call.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

// Coordinator guarantees at most one refresh call in flight. Callers that
// arrive while a refresh is running share its outcome.
//
// On success the new credentials are stored before any waiter resumes. On
// failure the store is cleared, TopicSessionEnded is published, and every
// waiter receives a *RefreshError.
type Coordinator struct {
	store   credentials.Store
	api     TokenRefresher
	events  *Events
	log     logging.Logger
	timeout time.Duration

	group singleflight.Group
}

// NewCoordinator builds a Coordinator. timeout bounds one refresh call
// regardless of which caller started it.
func NewCoordinator(store credentials.Store, api TokenRefresher, events *Events, log logging.Logger, timeout time.Duration) *Coordinator {
	return &Coordinator{store: store, api: api, events: events, log: log, timeout: timeout}
}

// Refresh returns credentials newer than stale, the access token the caller
// could not use. If another refresh already replaced stale in the store, the
// stored credentials are returned without a network call.
//
// The refresh itself is not cancelled by ctx: cancelling only stops this
// caller from waiting, so other waiters still get the result.
func (c *Coordinator) Refresh(ctx context.Context, stale string) (credentials.Credentials, error) {
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.refresh(runCtx, stale)
	})

	select {
	case <-ctx.Done():
		return credentials.Credentials{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return credentials.Credentials{}, res.Err
		}
		return res.Val.(credentials.Credentials), nil
	}
}

func (c *Coordinator) refresh(ctx context.Context, stale string) (credentials.Credentials, error) {
	current, err := c.store.Get(ctx)
	if err != nil {
		return credentials.Credentials{}, c.fail(ctx, err)
	}
	if current.AccessToken != "" && current.AccessToken != stale {
		c.log.Debug(ctx, "credentials already refreshed")
		return current, nil
	}
	if !current.HasRefreshToken() {
		return credentials.Credentials{}, c.fail(ctx, ErrNoRefreshToken)
	}

	c.log.Debug(ctx, "refreshing credentials")
	pair, err := c.api.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return credentials.Credentials{}, c.fail(ctx, err)
	}
	if pair.AccessToken == "" {
		return credentials.Credentials{}, c.fail(ctx, ErrEmptyAccessToken)
	}

	next := credentials.Credentials{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}
	if err := c.store.Set(ctx, next); err != nil {
		return credentials.Credentials{}, c.fail(ctx, err)
	}

	c.log.Info(ctx, "credentials refreshed")
	return next, nil
}

// fail ends the session: both tokens are dropped so the next action has to
// be a fresh login.
func (c *Coordinator) fail(ctx context.Context, cause error) error {
	c.log.Warn(ctx, "refresh failed, ending session", "error", cause)
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear credentials", "error", err)
	}
	err := &RefreshError{Cause: cause}
	c.events.publishSessionEnded(err)
	return err
}
