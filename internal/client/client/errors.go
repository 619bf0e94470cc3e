package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/client/auth"
	"github.com/dmitrijs2005/bookshelf/internal/client/pipeline"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// mapError tags err with the sentinel the caller acts on. The original
// error stays reachable through errors.As.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var serr *pipeline.ServerError
	switch {
	case errors.Is(err, pipeline.ErrNetwork):
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	case errors.Is(err, pipeline.ErrAuthorizationFailed), errors.Is(err, auth.ErrRefreshFailed):
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	case errors.As(err, &serr) && serr.NotFound():
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
