// Package services contains server-side business logic. This file implements
// UserService, which handles login, issuing/refreshing JWTs plus
// server-stored refresh tokens, logout and seeding the admin account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/cryptox"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/auth"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - Logout: revoke a refresh token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		log:                          log,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Unknown tokens yield ErrorUnauthorized, expired
// ones ErrRefreshTokenExpired. Only one of several concurrent calls with the
// same token wins; the rest get ErrorUnauthorized.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(s.now()) {
		if _, err := repo.Delete(ctx, refreshToken); err != nil {
			s.log.Warn(ctx, "failed to drop expired refresh token", "user_id", token.UserID, "error", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		deleted, err := repoTx.Delete(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if !deleted {
			// rotated by a concurrent request
			return common.ErrorUnauthorized
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, "", tx)
		return genErr
	}); err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "refresh token rotated", "user_id", token.UserID)
	return pair, nil
}

// Register creates a new user. The password is stored as an argon2id hash.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	salt := cryptox.NewSalt()
	user := &models.User{Email: email, Salt: salt, PasswordHash: cryptox.HashPassword([]byte(password), salt)}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// SeedAdmin makes sure the configured admin account exists. An empty
// password disables seeding; an existing account is left untouched.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		s.log.Info(ctx, "admin seeding disabled")
		return nil
	}

	_, err := s.Register(ctx, email, password)
	switch {
	case err == nil:
		s.log.Info(ctx, "admin account created", "email", normalizeEmail(email))
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		s.log.Debug(ctx, "admin account already present", "email", normalizeEmail(email))
		return nil
	default:
		return err
	}
}

// Login verifies the password against the stored hash and, on success,
// returns a new TokenPair and records the login time. Unknown emails and
// wrong passwords look the same.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.checkPassword(s.getRandomSalt(), s.getRandomSalt(), password)
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !s.checkPassword(user.PasswordHash, user.Salt, password) {
		return nil, common.ErrorUnauthorized
	}
	pair, err := s.generateTokenPair(ctx, user.ID, user.Email, s.db)
	if err != nil {
		return nil, err
	}
	if err := repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.log.Warn(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	}
	return pair, nil
}

// Logout revokes refreshToken. Unknown tokens are not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if _, err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		s.log.Error(ctx, "refresh token revoke failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// PurgeExpiredTokens drops refresh tokens that can no longer be used.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

// --- helpers below ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) getRandomSalt() []byte { return common.GenerateRandByteArray(cryptox.SaltSize) }

func (s *UserService) generateAccessToken(userID, email string) (string, error) {
	return auth.GenerateToken(userID, email, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) checkPassword(hash, salt []byte, candidate string) bool {
	return cryptox.VerifyPassword(hash, salt, []byte(candidate))
}

func (s *UserService) generateTokenPair(ctx context.Context, userID, email string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID, email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.now().Add(s.refreshTokenValidityDuration)); err != nil {
		s.log.Error(ctx, "refresh token insert failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
