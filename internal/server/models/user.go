// Package models holds the rows the server repositories read and write.
package models

import "time"

// User is an account allowed to manage the catalog. PasswordHash is the
// argon2id digest of the password with Salt.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
	// LastLoginAt is nil until the first successful login.
	LastLoginAt *time.Time
}
