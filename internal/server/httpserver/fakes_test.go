package httpserver

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/bookshelf/internal/server/auth"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
)

var testSecret = []byte("test-secret")

type fakeUsers struct {
	pair *services.TokenPair
	err  error

	email, password string
	refreshToken    string
	loggedOut       string
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	f.email, f.password = email, password
	return f.pair, f.err
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	f.refreshToken = token
	return f.pair, f.err
}

func (f *fakeUsers) Logout(_ context.Context, token string) error {
	f.loggedOut = token
	return f.err
}

type fakeBooks struct {
	page     *models.BookPage
	book     *models.Book
	coverURL string
	csv      []byte
	imported int
	err      error

	rawQuery  string
	input     services.BookInput
	id        int64
	deleted   int64
	importRaw []byte
}

func (f *fakeBooks) List(_ context.Context, rawQuery string) (*models.BookPage, error) {
	f.rawQuery = rawQuery
	return f.page, f.err
}

func (f *fakeBooks) Get(_ context.Context, id int64) (*models.Book, error) {
	f.id = id
	return f.book, f.err
}

func (f *fakeBooks) Create(_ context.Context, in services.BookInput) (*models.Book, error) {
	f.input = in
	return f.book, f.err
}

func (f *fakeBooks) Update(_ context.Context, id int64, in services.BookInput) (*models.Book, error) {
	f.id, f.input = id, in
	return f.book, f.err
}

func (f *fakeBooks) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}

func (f *fakeBooks) CoverURL(_ context.Context, id int64) (string, error) {
	f.id = id
	return f.coverURL, f.err
}

func (f *fakeBooks) Export(context.Context) ([]byte, error) { return f.csv, f.err }

func (f *fakeBooks) Import(_ context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.importRaw = data
	return f.imported, f.err
}

type fakeCatalog struct {
	items []models.CatalogItem
	err   error

	kind catalog.Kind
	term string
	name string
}

func (f *fakeCatalog) Search(_ context.Context, kind catalog.Kind, term string) ([]models.CatalogItem, error) {
	f.kind, f.term = kind, term
	return f.items, f.err
}

func (f *fakeCatalog) Create(_ context.Context, kind catalog.Kind, name string) (*models.CatalogItem, error) {
	f.kind, f.name = kind, name
	if f.err != nil {
		return nil, f.err
	}
	return &models.CatalogItem{ID: 5, Name: name}, nil
}

type testEnv struct {
	router  *gin.Engine
	users   *fakeUsers
	books   *fakeBooks
	catalog *fakeCatalog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{users: &fakeUsers{}, books: &fakeBooks{}, catalog: &fakeCatalog{}}
	h := NewHandler(env.users, env.books, env.catalog, testSecret, zap.NewNop())
	env.router = NewRouter(h, []string{"http://localhost:5173"})
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func accessToken(t *testing.T, validity time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken("user-1", "reader@example.org", testSecret, validity)
	require.NoError(t, err)
	return tok
}

func authorized(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+accessToken(t, time.Minute))
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
