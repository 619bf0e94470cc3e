// Package cryptox hashes and verifies account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random per-user salt.
const SaltSize = 16

// argon2id parameters. Changing them invalidates stored hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives the stored digest of password with salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword reports whether candidate hashes to hash under salt. The
// comparison runs in constant time.
func VerifyPassword(hash, salt, candidate []byte) bool {
	return subtle.ConstantTimeCompare(hash, HashPassword(candidate, salt)) == 1
}
