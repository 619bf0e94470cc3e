package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/cryptox"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/auth"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, cfg, logging.Nop())
}

func storedUser(id, email, password string) *models.User {
	salt := cryptox.NewSalt()
	return &models.User{ID: id, Email: email, Salt: salt, PasswordHash: cryptox.HashPassword([]byte(password), salt)}
}

func liveToken(userID string) *models.RefreshToken {
	return &models.RefreshToken{UserID: userID, Expires: time.Now().Add(10 * time.Minute)}
}

// expectTx registers a begin followed by commit or rollback and checks the
// expectations when the test ends.
func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
}

func TestRefreshToken_Rotates(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	expectTx(t, mock, true)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rr := &fakeRefreshRepo{findOut: &models.RefreshToken{UserID: "u1", Expires: now.Add(time.Minute)}}
	s := newUserService(t, db, &fakeRepoManager{r: rr})
	s.now = func() time.Time { return now }

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "refresh-xyz", pair.RefreshToken, "refresh token must rotate")
	assert.Equal(t, []string{"refresh-xyz"}, rr.deleted)
	assert.Equal(t, []string{pair.RefreshToken}, rr.created)
	assert.Equal(t, now.Add(2*time.Hour), rr.expiresAt)

	uid, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestRefreshToken_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
	}{
		{"past", now.Add(-time.Minute)},
		{"exactly now", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newSQLMockDB(t)
			defer db.Close()

			rr := &fakeRefreshRepo{findOut: &models.RefreshToken{UserID: "u1", Expires: tt.expires}}
			s := newUserService(t, db, &fakeRepoManager{r: rr})
			s.now = func() time.Time { return now }

			_, err := s.RefreshToken(context.Background(), "r")
			require.ErrorIs(t, err, common.ErrRefreshTokenExpired)
			assert.Equal(t, []string{"r"}, rr.deleted, "expired token is dropped")
			assert.Empty(t, rr.created)
		})
	}
}

func TestRefreshToken_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		repo    *fakeRefreshRepo
		wantErr error
		wantMsg string
	}{
		{name: "empty token", token: "", repo: &fakeRefreshRepo{}, wantErr: common.ErrorUnauthorized},
		{name: "unknown token", token: "r", repo: &fakeRefreshRepo{findErr: common.ErrorNotFound}, wantErr: common.ErrorUnauthorized},
		{name: "lookup failure", token: "r", repo: &fakeRefreshRepo{findErr: errBoom{}}, wantMsg: "error searching refresh token: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newSQLMockDB(t)
			defer db.Close()
			s := newUserService(t, db, &fakeRepoManager{r: tt.repo})

			_, err := s.RefreshToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.EqualError(t, err, tt.wantMsg)
			}
			assert.Empty(t, tt.repo.created)
		})
	}
}

func TestRefreshToken_RollsBack(t *testing.T) {
	tests := []struct {
		name    string
		repo    *fakeRefreshRepo
		wantErr error
		wantMsg string
	}{
		{
			name:    "delete fails",
			repo:    &fakeRefreshRepo{findOut: liveToken("u1"), delErr: errBoom{}},
			wantMsg: "error deleting refresh token: boom",
		},
		{
			name:    "lost a concurrent rotation",
			repo:    &fakeRefreshRepo{findOut: liveToken("u1"), delMiss: true},
			wantErr: common.ErrorUnauthorized,
		},
		{
			name:    "new token cannot be stored",
			repo:    &fakeRefreshRepo{findOut: liveToken("u1"), createErr: errBoom{}},
			wantErr: common.ErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			defer db.Close()
			expectTx(t, mock, false)

			s := newUserService(t, db, &fakeRepoManager{r: tt.repo})
			pair, err := s.RefreshToken(context.Background(), "r")
			assert.Nil(t, pair)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.ErrorContains(t, err, tt.wantMsg)
			}
			assert.Empty(t, tt.repo.created)
		})
	}
}

func TestRegister(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	ur := &fakeUsersRepo{}
	s := newUserService(t, db, &fakeRepoManager{u: ur})

	u, err := s.Register(context.Background(), "  Alice@Example.org ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.org", u.Email)
	assert.True(t, cryptox.VerifyPassword(ur.created.PasswordHash, ur.created.Salt, []byte("pw")))

	for _, in := range [][2]string{{"", "pw"}, {"   ", "pw"}, {"bob@example.org", ""}} {
		_, err := s.Register(context.Background(), in[0], in[1])
		require.ErrorIs(t, err, common.ErrorValidation, "input %q", in)
	}

	failing := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}})
	_, err = failing.Register(context.Background(), "bob@example.org", "pw")
	require.EqualError(t, err, "error creating user: boom")
}

func TestSeedAdmin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	tests := []struct {
		name        string
		password    string
		repo        *fakeUsersRepo
		wantCreated bool
		wantErr     bool
	}{
		{name: "disabled without password", repo: &fakeUsersRepo{}},
		{name: "creates account", password: "pw", repo: &fakeUsersRepo{}, wantCreated: true},
		{name: "existing account is fine", password: "pw", repo: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}, wantCreated: true},
		{name: "storage failure", password: "pw", repo: &fakeUsersRepo{createErr: errBoom{}}, wantCreated: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newUserService(t, db, &fakeRepoManager{u: tt.repo})
			err := s.SeedAdmin(context.Background(), "Admin@Example.org", tt.password)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCreated, tt.repo.created != nil)
		})
	}
}

func TestLogin(t *testing.T) {
	user := storedUser("u1", "u@example.org", "right")

	tests := []struct {
		name     string
		email    string
		password string
		users    *fakeUsersRepo
		wantErr  error
	}{
		{name: "unknown email", email: "ghost@example.org", password: "x", users: &fakeUsersRepo{getErr: common.ErrorNotFound}, wantErr: common.ErrorUnauthorized},
		{name: "lookup failure", email: "u@example.org", password: "x", users: &fakeUsersRepo{getErr: errBoom{}}, wantErr: common.ErrorInternal},
		{name: "wrong password", email: "u@example.org", password: "wrong", users: &fakeUsersRepo{getOut: user}, wantErr: common.ErrorUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newSQLMockDB(t)
			defer db.Close()

			rr := &fakeRefreshRepo{}
			s := newUserService(t, db, &fakeRepoManager{u: tt.users, r: rr})

			_, err := s.Login(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, rr.created)
			assert.Empty(t, tt.users.touched, "failed logins are not recorded")
		})
	}

	t.Run("success", func(t *testing.T) {
		db, _ := newSQLMockDB(t)
		defer db.Close()

		ur := &fakeUsersRepo{getOut: user}
		rr := &fakeRefreshRepo{}
		s := newUserService(t, db, &fakeRepoManager{u: ur, r: rr})

		pair, err := s.Login(context.Background(), " U@Example.org", "right")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, "u@example.org", ur.getEmail, "lookup uses the normalised email")
		assert.Equal(t, []string{pair.RefreshToken}, rr.created)
		assert.Equal(t, []string{"u1"}, ur.touched)
	})

	t.Run("login time failure is not fatal", func(t *testing.T) {
		db, _ := newSQLMockDB(t)
		defer db.Close()

		ur := &fakeUsersRepo{getOut: user, touchErr: errBoom{}}
		s := newUserService(t, db, &fakeRepoManager{u: ur, r: &fakeRefreshRepo{}})

		pair, err := s.Login(context.Background(), "u@example.org", "right")
		require.NoError(t, err)
		assert.NotNil(t, pair)
	})
}

func TestLogout(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rr := &fakeRefreshRepo{}
	s := newUserService(t, db, &fakeRepoManager{r: rr})

	require.NoError(t, s.Logout(context.Background(), ""))
	assert.Empty(t, rr.deleted, "empty token is a no-op")

	require.NoError(t, s.Logout(context.Background(), "tok"))
	assert.Equal(t, []string{"tok"}, rr.deleted)

	rr.delMiss = true
	require.NoError(t, s.Logout(context.Background(), "gone"), "unknown tokens are not an error")

	rr.delErr = errBoom{}
	require.ErrorIs(t, s.Logout(context.Background(), "tok"), common.ErrorInternal)
}

func TestPurgeExpiredTokens(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rr := &fakeRefreshRepo{}
	s := newUserService(t, db, &fakeRepoManager{r: rr})
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.PurgeExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, rr.purgedAt.Equal(now))
}
