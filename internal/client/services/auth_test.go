package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/credentials"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	LoginErr  error
	LogoutErr error

	LastEmail    string
	LastPassword string
	LoggedOut    bool
}

func (f *fakeSession) Login(ctx context.Context, email, password string) error {
	f.LastEmail, f.LastPassword = email, password
	return f.LoginErr
}

func (f *fakeSession) Logout(ctx context.Context) error {
	f.LoggedOut = true
	return f.LogoutErr
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestAuthService_LoginLogoutDelegate(t *testing.T) {
	sess := &fakeSession{}
	svc := NewAuthService(sess, credentials.NewMemoryStore(credentials.Credentials{}), &fakeClient{})

	require.NoError(t, svc.Login(context.Background(), "a@b.c", "pw"))
	assert.Equal(t, "a@b.c", sess.LastEmail)
	assert.Equal(t, "pw", sess.LastPassword)

	require.NoError(t, svc.Logout(context.Background()))
	assert.True(t, sess.LoggedOut)

	fc := &fakeClient{}
	require.NoError(t, NewAuthService(sess, credentials.NewMemoryStore(credentials.Credentials{}), fc).Ping(context.Background()))
	assert.Equal(t, []string{"Ping"}, fc.Calls)

	sess.LoginErr = errors.New("bad credentials")
	require.EqualError(t, svc.Login(context.Background(), "a@b.c", "x"), "bad credentials")
}

func TestAuthService_Status(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	valid := signed(t, now.Add(time.Hour))
	expired := signed(t, now.Add(-time.Minute))

	tests := []struct {
		name  string
		creds credentials.Credentials
		want  Status
	}{
		{
			name: "logged out",
			want: Status{},
		},
		{
			name:  "valid token",
			creds: credentials.Credentials{AccessToken: valid, RefreshToken: "r"},
			want:  Status{LoggedIn: true, CanRefresh: true, ExpiresAt: time.Unix(now.Add(time.Hour).Unix(), 0)},
		},
		{
			name:  "expired token without refresh token",
			creds: credentials.Credentials{AccessToken: expired},
			want:  Status{LoggedIn: true, ExpiresAt: time.Unix(now.Add(-time.Minute).Unix(), 0), Expired: true},
		},
		{
			name:  "malformed token",
			creds: credentials.Credentials{AccessToken: "garbage", RefreshToken: "r"},
			want:  Status{LoggedIn: true, CanRefresh: true, Expired: true},
		},
		{
			name:  "refresh token only",
			creds: credentials.Credentials{RefreshToken: "r"},
			want:  Status{LoggedIn: true, CanRefresh: true, Expired: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(&fakeSession{}, credentials.NewMemoryStore(tt.creds), &fakeClient{}).(*authService)
			svc.now = func() time.Time { return now }

			got, err := svc.Status(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want.LoggedIn, got.LoggedIn)
			assert.Equal(t, tt.want.CanRefresh, got.CanRefresh)
			assert.Equal(t, tt.want.Expired, got.Expired)
			assert.True(t, tt.want.ExpiresAt.Equal(got.ExpiresAt), "expires at %v, want %v", got.ExpiresAt, tt.want.ExpiresAt)
		})
	}
}
