package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/dmitrijs2005/bookshelf/internal/client/query"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	ListBooksRet *models.BookPage
	GetBookRet   *models.Book
	ExportRet    []byte
	Err          error

	Authors    []models.Author
	Genres     []models.Genre
	Publishers []models.Publisher

	// recorded arguments
	LastPage      query.PageRequest
	LastSearch    string
	LastCreate    models.CatalogInput
	LastImportRaw []byte
	LastImportFn  string
	Calls         []string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) call(name string) { f.Calls = append(f.Calls, name) }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.call("Ping")
	return f.Err
}

func (f *fakeClient) ListBooks(ctx context.Context, page query.PageRequest, filters []query.FilterItem, sorts []query.SortItem) (*models.BookPage, error) {
	f.call("ListBooks")
	f.LastPage = page
	return f.ListBooksRet, f.Err
}

func (f *fakeClient) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	f.call("GetBook")
	return f.GetBookRet, f.Err
}

func (f *fakeClient) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	f.call("CreateBook")
	return &models.Book{ID: 1, Title: in.Title}, f.Err
}

func (f *fakeClient) UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	f.call("UpdateBook")
	return &models.Book{ID: id, Title: in.Title}, f.Err
}

func (f *fakeClient) DeleteBook(ctx context.Context, id int64) error {
	f.call("DeleteBook")
	return f.Err
}

func (f *fakeClient) ExportCSV(ctx context.Context) ([]byte, error) {
	f.call("ExportCSV")
	return f.ExportRet, f.Err
}

func (f *fakeClient) ImportCSV(ctx context.Context, filename string, data io.Reader) error {
	f.call("ImportCSV")
	f.LastImportFn = filename
	f.LastImportRaw, _ = io.ReadAll(data)
	return f.Err
}

func (f *fakeClient) ListAuthors(ctx context.Context) ([]models.Author, error) {
	f.call("ListAuthors")
	return f.Authors, f.Err
}

func (f *fakeClient) SearchAuthors(ctx context.Context, term string) ([]models.Author, error) {
	f.call("SearchAuthors")
	f.LastSearch = term
	return f.Authors, f.Err
}

func (f *fakeClient) CreateAuthor(ctx context.Context, in models.CatalogInput) (*models.Author, error) {
	f.call("CreateAuthor")
	f.LastCreate = in
	return &models.Author{ID: 10, Name: in.Name}, f.Err
}

func (f *fakeClient) ListGenres(ctx context.Context) ([]models.Genre, error) {
	f.call("ListGenres")
	return f.Genres, f.Err
}

func (f *fakeClient) SearchGenres(ctx context.Context, term string) ([]models.Genre, error) {
	f.call("SearchGenres")
	f.LastSearch = term
	return f.Genres, f.Err
}

func (f *fakeClient) CreateGenre(ctx context.Context, in models.CatalogInput) (*models.Genre, error) {
	f.call("CreateGenre")
	f.LastCreate = in
	return &models.Genre{ID: 20, Name: in.Name}, f.Err
}

func (f *fakeClient) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	f.call("ListPublishers")
	return f.Publishers, f.Err
}

func (f *fakeClient) SearchPublishers(ctx context.Context, term string) ([]models.Publisher, error) {
	f.call("SearchPublishers")
	f.LastSearch = term
	return f.Publishers, f.Err
}

func (f *fakeClient) CreatePublisher(ctx context.Context, in models.CatalogInput) (*models.Publisher, error) {
	f.call("CreatePublisher")
	f.LastCreate = in
	return &models.Publisher{ID: 30, Name: in.Name}, f.Err
}
