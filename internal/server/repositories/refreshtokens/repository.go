// Package refreshtokens persists the server half of a login session. Only a
// digest of each token is stored, so a leaked table cannot be replayed.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete reports whether a row was removed. A miss is not an error: it
	// means the token was revoked or rotated by someone else.
	Delete(ctx context.Context, token string) (bool, error)

	// DeleteExpired purges tokens whose expiry is not after now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
