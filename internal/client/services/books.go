package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/dmitrijs2005/bookshelf/internal/client/query"
	"github.com/dmitrijs2005/bookshelf/internal/filex"
)

const maxImageSize = 5 << 20

var (
	ErrImageTooLarge = errors.New("image too large")
	ErrEmptyCSV      = errors.New("csv file has no rows")
)

// BookService defines book operations for the CLI.
//
// Contract:
//   - List/Get/Create/Update/Delete: proxy to the resource server.
//   - Export: download the CSV export and write it to a local file.
//   - Import: check a local CSV file and upload it; returns the data row count.
//   - LoadImage: read a cover image from disk for Create/Update.
type BookService interface {
	List(ctx context.Context, page query.PageRequest, filters []query.FilterItem, sorts []query.SortItem) (*models.BookPage, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in models.BookInput) (*models.Book, error)
	Update(ctx context.Context, id int64, in models.BookInput) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, path string) (int, error)
	Import(ctx context.Context, path string) (int, error)
	LoadImage(path string) (*models.ImageFile, error)
}

type bookService struct {
	client client.Client
}

func NewBookService(c client.Client) BookService {
	return &bookService{client: c}
}

func (s *bookService) List(ctx context.Context, page query.PageRequest, filters []query.FilterItem, sorts []query.SortItem) (*models.BookPage, error) {
	return s.client.ListBooks(ctx, page, filters, sorts)
}

func (s *bookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	return s.client.GetBook(ctx, id)
}

func (s *bookService) Create(ctx context.Context, in models.BookInput) (*models.Book, error) {
	return s.client.CreateBook(ctx, in)
}

func (s *bookService) Update(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	return s.client.UpdateBook(ctx, id, in)
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	return s.client.DeleteBook(ctx, id)
}

// Export writes the server's CSV export to path and returns its size.
func (s *bookService) Export(ctx context.Context, path string) (int, error) {
	data, err := s.client.ExportCSV(ctx)
	if err != nil {
		return 0, err
	}
	if err := filex.WriteAtomic(path, data, 0o600); err != nil {
		return 0, fmt.Errorf("save export: %w", err)
	}
	return len(data), nil
}

// Import refuses files that are not well-formed CSV with at least one data
// row below the header.
func (s *bookService) Import(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return 0, ErrEmptyCSV
	}

	if err := s.client.ImportCSV(ctx, filepath.Base(path), bytes.NewReader(data)); err != nil {
		return 0, err
	}
	return len(records) - 1, nil
}

func (s *bookService) LoadImage(path string) (*models.ImageFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > maxImageSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, path, fi.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &models.ImageFile{Name: filepath.Base(path), Content: content}, nil
}
