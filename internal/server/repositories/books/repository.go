// Package books persists catalog books and answers filtered, paged listings.
package books

import (
	"context"

	"github.com/dmitrijs2005/bookshelf/internal/server/listquery"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// Fields lists what clients may filter and sort books by.
var Fields = listquery.Fields{
	"id":           {Column: "id", Numeric: true},
	"title":        {Column: "title"},
	"author":       {Column: "author"},
	"publisher":    {Column: "publisher"},
	"genre":        {Column: "genre"},
	"price":        {Column: "price", Numeric: true},
	"availability": {Column: "availability", Numeric: true},
}

type Repository interface {
	List(ctx context.Context, q listquery.ListQuery) (*models.BookPage, error)
	// All returns every book ordered by id, for exports.
	All(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}
