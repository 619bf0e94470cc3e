// Package metadata is the client's local key/value table. The credential
// store keeps the session tokens here so they survive a restart.
package metadata

import (
	"context"
)

// Repository reads and writes string values by key. A missing key reads as
// the empty string.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	// GetMany reads several keys in one statement. Missing keys are absent
	// from the result.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}
