// Package users stores the accounts that may sign in to the API.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its generated ID. A duplicate email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// TouchLastLogin stamps the account with the time of a successful login.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}
