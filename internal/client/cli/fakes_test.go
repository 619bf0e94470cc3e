package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/dmitrijs2005/bookshelf/internal/client/query"
	"github.com/dmitrijs2005/bookshelf/internal/client/services"
)

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(in *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{reader: in, out: &out}, &out
}

func stubInputs(t *testing.T, username string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	loginUser string
	loginPass string
	loginErr  error

	logoutCalled bool
	logoutErr    error

	status    services.Status
	statusErr error

	pingErr   error
	pingCount int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) error {
	f.loginUser, f.loginPass = email, password
	return f.loginErr
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}
func (f *fakeAuth) Status(context.Context) (services.Status, error) { return f.status, f.statusErr }
func (f *fakeAuth) Ping(context.Context) error {
	f.pingCount++
	return f.pingErr
}

type fakeBooks struct {
	listPage    query.PageRequest
	listFilters []query.FilterItem
	listSorts   []query.SortItem
	listOut     *models.BookPage

	getOut *models.Book

	created  models.BookInput
	updateID int64
	updated  models.BookInput
	deleted  int64

	exportPath string
	importPath string
	loadPath   string
	image      *models.ImageFile

	err error
}

func (f *fakeBooks) List(_ context.Context, page query.PageRequest, filters []query.FilterItem, sorts []query.SortItem) (*models.BookPage, error) {
	f.listPage, f.listFilters, f.listSorts = page, filters, sorts
	return f.listOut, f.err
}
func (f *fakeBooks) Get(_ context.Context, id int64) (*models.Book, error) {
	return f.getOut, f.err
}
func (f *fakeBooks) Create(_ context.Context, in models.BookInput) (*models.Book, error) {
	f.created = in
	return &models.Book{ID: 11, Title: in.Title}, f.err
}
func (f *fakeBooks) Update(_ context.Context, id int64, in models.BookInput) (*models.Book, error) {
	f.updateID, f.updated = id, in
	return &models.Book{ID: id, Title: in.Title}, f.err
}
func (f *fakeBooks) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}
func (f *fakeBooks) Export(_ context.Context, path string) (int, error) {
	f.exportPath = path
	return 128, f.err
}
func (f *fakeBooks) Import(_ context.Context, path string) (int, error) {
	f.importPath = path
	return 3, f.err
}
func (f *fakeBooks) LoadImage(path string) (*models.ImageFile, error) {
	f.loadPath = path
	return f.image, f.err
}

type fakeCatalog struct {
	kind services.CatalogKind
	term string
	name string
	rows []services.CatalogEntry
	err  error
}

func (f *fakeCatalog) Search(_ context.Context, kind services.CatalogKind, term string) ([]services.CatalogEntry, error) {
	f.kind, f.term = kind, term
	return f.rows, f.err
}
func (f *fakeCatalog) Create(_ context.Context, kind services.CatalogKind, name string) (services.CatalogEntry, error) {
	f.kind, f.name = kind, name
	return services.CatalogEntry{ID: 9, Name: name}, f.err
}
