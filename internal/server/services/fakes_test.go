package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/listquery"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	booksrepo "github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	catalogrepo "github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
	refreshtokensrepo "github.com/dmitrijs2005/bookshelf/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/bookshelf/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut   *models.User
	getErr   error
	getEmail string

	touchErr error
	touched  []string
}

func (f *fakeUsersRepo) TouchLastLogin(_ context.Context, userID string, _ time.Time) error {
	f.touched = append(f.touched, userID)
	return f.touchErr
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.getEmail = email
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr  error
	delMiss bool
	deleted []string

	createErr error
	created   []string
	expiresAt time.Time

	purgedAt time.Time
}

func (f *fakeRefreshRepo) Create(_ context.Context, _ string, token string, expiresAt time.Time) error {
	f.expiresAt = expiresAt
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(_ context.Context, _ string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) (bool, error) {
	f.deleted = append(f.deleted, token)
	if f.delErr != nil {
		return false, f.delErr
	}
	return !f.delMiss, nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.purgedAt = now
	return 2, nil
}

// fakeBooksRepo keeps books in memory keyed by id.
type fakeBooksRepo struct {
	rows      map[int64]models.Book
	nextID    int64
	lastQuery listquery.ListQuery
	createErr error
	updateErr error
}

func newFakeBooksRepo(books ...models.Book) *fakeBooksRepo {
	f := &fakeBooksRepo{rows: map[int64]models.Book{}, nextID: 100}
	for _, b := range books {
		f.rows[b.ID] = b
	}
	return f
}

func (f *fakeBooksRepo) List(_ context.Context, q listquery.ListQuery) (*models.BookPage, error) {
	f.lastQuery = q
	all, _ := f.All(context.Background())
	return &models.BookPage{Rows: all, Count: len(all)}, nil
}

func (f *fakeBooksRepo) All(context.Context) ([]models.Book, error) {
	out := make([]models.Book, 0, len(f.rows))
	for _, b := range f.rows {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBooksRepo) Get(_ context.Context, id int64) (*models.Book, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &b, nil
}

func (f *fakeBooksRepo) Create(_ context.Context, b *models.Book) (*models.Book, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	b.ID = f.nextID
	f.rows[b.ID] = *b
	return b, nil
}

func (f *fakeBooksRepo) Update(_ context.Context, b *models.Book) (*models.Book, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.rows[b.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.rows[b.ID] = *b
	return b, nil
}

func (f *fakeBooksRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeCatalogRepo struct {
	kind  catalogrepo.Kind
	term  string
	name  string
	items []models.CatalogItem
	err   error
}

func (f *fakeCatalogRepo) Search(_ context.Context, kind catalogrepo.Kind, term string) ([]models.CatalogItem, error) {
	f.kind, f.term = kind, term
	return f.items, f.err
}

func (f *fakeCatalogRepo) Create(_ context.Context, kind catalogrepo.Kind, name string) (*models.CatalogItem, error) {
	f.kind, f.name = kind, name
	if f.err != nil {
		return nil, f.err
	}
	return &models.CatalogItem{ID: 1, Name: name}, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	b *fakeBooksRepo
	c *fakeCatalogRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) ([]int64, error) { return nil, nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                     { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository     { return m.r }
func (m *fakeRepoManager) Books(dbx.DBTX) booksrepo.Repository                     { return m.b }
func (m *fakeRepoManager) Catalog(dbx.DBTX) catalogrepo.Repository                 { return m.c }

type fakeCovers struct {
	puts       map[string][]byte
	types      map[string]string
	deleted    []string
	putErr     error
	presignErr error
}

func newFakeCovers() *fakeCovers {
	return &fakeCovers{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeCovers) Put(_ context.Context, key, contentType string, body []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[key] = body
	f.types[key] = contentType
	return nil
}

func (f *fakeCovers) PresignGet(_ context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "http://minio/covers/" + key + "?sig=1", nil
}

func (f *fakeCovers) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
