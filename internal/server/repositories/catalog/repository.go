// Package catalog stores the lookup lists shown next to books: authors,
// genres and publishers. All three share one table shape.
package catalog

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

type Kind string

const (
	Authors    Kind = "authors"
	Genres     Kind = "genres"
	Publishers Kind = "publishers"
)

// Kinds lists every catalog in display order.
var Kinds = []Kind{Authors, Genres, Publishers}

// ParseKind validates s against the known catalogs.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown catalog %q", common.ErrorValidation, s)
}

type Repository interface {
	// Search returns items whose name contains term, case-insensitively,
	// ordered by name. An empty term lists everything.
	Search(ctx context.Context, kind Kind, term string) ([]models.CatalogItem, error)
	// Create adds name to the catalog. A duplicate yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, kind Kind, name string) (*models.CatalogItem, error)
}
