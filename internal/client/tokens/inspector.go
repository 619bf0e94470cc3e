// Package tokens reads the expiry claim of an access token. It never verifies
// signatures; the server does that. The client only needs to know whether a
// token is worth sending.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken reports a token whose claims segment cannot be decoded
// or carries no numeric exp claim.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the part of the payload the client cares about.
type Claims struct {
	ExpiresAt time.Time
}

var parser = jwt.NewParser()

// Decode extracts Claims from token without checking its signature.
func Decode(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return Claims{}, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}
	return Claims{ExpiresAt: exp.Time}, nil
}

// IsExpired reports whether token must be refreshed before use at now.
//
// An empty token is expired. A malformed token is reported as expired along
// with an error wrapping ErrMalformedToken; callers treat it as expired and
// move on. A token whose expiry equals now, compared in milliseconds, is
// already expired.
func IsExpired(token string, now time.Time) (bool, error) {
	if token == "" {
		return true, nil
	}
	claims, err := Decode(token)
	if err != nil {
		return true, err
	}
	return claims.ExpiresAt.UnixMilli() <= now.UnixMilli(), nil
}
