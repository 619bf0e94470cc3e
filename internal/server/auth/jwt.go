// Package auth issues and verifies the HS256 access tokens handed to API
// clients.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped into every token and required on verification.
const Issuer = "bookshelf"

// Claims carries the registered claims plus the owning user. The expiry is
// always set, clients read it to refresh ahead of time.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// GenerateToken signs an access token for userID that expires after
// validity. Each token gets a unique ID so two tokens minted in the same
// second still differ.
func GenerateToken(userID, email string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
		Email:  email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// GetUserIDFromToken validates tokenString and returns its user.
// Expired tokens yield common.ErrTokenExpired, anything else unusable
// yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil, claims.UserID == "":
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
