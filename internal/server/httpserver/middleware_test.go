package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"missing header", "", http.StatusUnauthorized, ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ErrCodeTokenInvalid},
		{"extra parts", "Bearer a b", http.StatusUnauthorized, ErrCodeTokenInvalid},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, ErrCodeTokenInvalid},
		{"expired token", "Bearer " + accessToken(t, -time.Minute), http.StatusUnauthorized, ErrCodeTokenExpired},
		{"valid token", "Bearer " + accessToken(t, time.Minute), http.StatusOK, ""},
		{"lowercase scheme", "bearer " + accessToken(t, time.Minute), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.books.page = &models.BookPage{}

			req := httptest.NewRequest(http.MethodGet, "/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := env.do(req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantErr, body.Code)
			}
		})
	}
}

func TestHealth_IsPublic(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.do(httptest.NewRequest(http.MethodHead, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics_IsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.do(jsonRequest(http.MethodPost, "/auth/login", `{}`))

	w := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookshelf_logins_total")
}

func TestRequestLogger_RequestID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "generated when absent")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = env.do(req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := env.do(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = env.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
