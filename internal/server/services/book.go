package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/covers"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
)

// MaxCoverSize caps uploaded cover images.
const MaxCoverSize = 5 << 20

// ErrNoCover is returned by CoverURL for books without an uploaded image.
var ErrNoCover = errors.New("book has no uploaded cover")

// Upload is an image file received with a book form.
type Upload struct {
	Name    string
	Content []byte
}

// BookInput is a create or update request. Image wins over ImageURL.
type BookInput struct {
	Title        string
	Author       string
	Publisher    string
	Genre        string
	Price        float64
	Availability int
	Image        *Upload
	ImageURL     string
}

// Validate checks the fields every stored book must satisfy.
func (in *BookInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.Genre = strings.TrimSpace(in.Genre)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	var problems []string
	if in.Title == "" {
		problems = append(problems, "title is required")
	}
	if in.Author == "" {
		problems = append(problems, "author is required")
	}
	if in.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if in.Availability < 0 {
		problems = append(problems, "availability must not be negative")
	}
	if in.Image != nil && len(in.Image.Content) == 0 {
		problems = append(problems, "image is empty")
	}
	if in.Image != nil && len(in.Image.Content) > MaxCoverSize {
		problems = append(problems, "image is too large")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(problems, "; "))
	}
	return nil
}

// BookService implements catalog book management on top of the repository
// and cover storage.
type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	covers      covers.Store
	log         logging.Logger
}

func NewBookService(db *sql.DB, m repomanager.RepositoryManager, store covers.Store, log logging.Logger) *BookService {
	return &BookService{db: db, repomanager: m, covers: store, log: log}
}

// List parses rawQuery and returns the requested page.
func (s *BookService) List(ctx context.Context, rawQuery string) (*models.BookPage, error) {
	q, err := books.Fields.Parse(rawQuery)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Books(s.db).List(ctx, q)
}

func (s *BookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	return s.repomanager.Books(s.db).Get(ctx, id)
}

func (s *BookService) Create(ctx context.Context, in BookInput) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	book := &models.Book{}
	apply(book, in)

	if in.Image != nil {
		key, err := s.storeCover(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		book.ImageKey, book.ImageURL = key, ""
	}

	created, err := s.repomanager.Books(s.db).Create(ctx, book)
	if err != nil {
		s.dropCover(ctx, book.ImageKey)
		return nil, err
	}
	s.log.Info(ctx, "book created", "book_id", created.ID)
	return created, nil
}

// Update replaces the book's fields. Without a new image or URL the
// current cover is kept; a URL that points back at the book's own cover
// link is treated the same way.
func (s *BookService) Update(ctx context.Context, id int64, in BookInput) (*models.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Books(s.db)
	book, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey, oldURL := book.ImageKey, book.ImageURL
	apply(book, in)

	switch {
	case in.Image != nil:
		key, err := s.storeCover(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		book.ImageKey, book.ImageURL = key, ""
	case in.ImageURL == "" || IsCoverLink(in.ImageURL, id):
		book.ImageKey, book.ImageURL = oldKey, oldURL
	default:
		book.ImageKey = ""
	}

	updated, err := repo.Update(ctx, book)
	if err != nil {
		if book.ImageKey != oldKey {
			s.dropCover(ctx, book.ImageKey)
		}
		return nil, err
	}
	if oldKey != "" && updated.ImageKey != oldKey {
		s.dropCover(ctx, oldKey)
	}
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Books(s.db)
	book, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropCover(ctx, book.ImageKey)
	s.log.Info(ctx, "book deleted", "book_id", id)
	return nil
}

// CoverURL returns a presigned link to the uploaded cover of book id.
func (s *BookService) CoverURL(ctx context.Context, id int64) (string, error) {
	book, err := s.repomanager.Books(s.db).Get(ctx, id)
	if err != nil {
		return "", err
	}
	if book.ImageKey == "" {
		return "", ErrNoCover
	}
	return s.covers.PresignGet(ctx, book.ImageKey)
}

// CoverLink is the API path that redirects to the cover of book id.
func CoverLink(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10) + "/cover"
}

// IsCoverLink reports whether u, absolute or not, is CoverLink(id).
func IsCoverLink(u string, id int64) bool {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.HasSuffix(u, CoverLink(id))
}

func apply(b *models.Book, in BookInput) {
	b.Title = in.Title
	b.Author = in.Author
	b.Publisher = in.Publisher
	b.Genre = in.Genre
	b.Price = in.Price
	b.Availability = in.Availability
	b.ImageURL = in.ImageURL
}

func (s *BookService) storeCover(ctx context.Context, img *Upload) (string, error) {
	ct := http.DetectContentType(img.Content)
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: cover must be an image, got %s", common.ErrorValidation, ct)
	}
	key := covers.NewKey(img.Name)
	if err := s.covers.Put(ctx, key, ct, img.Content); err != nil {
		s.log.Error(ctx, "cover upload failed", "key", key, "error", err)
		return "", common.ErrorInternal
	}
	return key, nil
}

func (s *BookService) dropCover(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.covers.Delete(ctx, key); err != nil {
		s.log.Warn(ctx, "cover cleanup failed", "key", key, "error", err)
	}
}
