package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/models"
)

// CatalogKind names one of the reference lists books point at.
type CatalogKind string

const (
	Authors    CatalogKind = "authors"
	Genres     CatalogKind = "genres"
	Publishers CatalogKind = "publishers"
)

// CatalogEntry is the common view of an author, genre or publisher.
type CatalogEntry struct {
	ID   int64
	Name string
}

// CatalogService defines catalog operations for the CLI.
//
// Contract:
//   - Search: list entries of kind; an empty term lists all of them.
//   - Create: add an entry of kind with the given name.
type CatalogService interface {
	Search(ctx context.Context, kind CatalogKind, term string) ([]CatalogEntry, error)
	Create(ctx context.Context, kind CatalogKind, name string) (CatalogEntry, error)
}

type catalogService struct {
	client client.Client
}

func NewCatalogService(c client.Client) CatalogService {
	return &catalogService{client: c}
}

func (s *catalogService) Search(ctx context.Context, kind CatalogKind, term string) ([]CatalogEntry, error) {
	term = strings.TrimSpace(term)

	switch kind {
	case Authors:
		var rows []models.Author
		var err error
		if term == "" {
			rows, err = s.client.ListAuthors(ctx)
		} else {
			rows, err = s.client.SearchAuthors(ctx, term)
		}
		return entries(rows, func(a models.Author) CatalogEntry { return CatalogEntry{a.ID, a.Name} }), err
	case Genres:
		var rows []models.Genre
		var err error
		if term == "" {
			rows, err = s.client.ListGenres(ctx)
		} else {
			rows, err = s.client.SearchGenres(ctx, term)
		}
		return entries(rows, func(g models.Genre) CatalogEntry { return CatalogEntry{g.ID, g.Name} }), err
	case Publishers:
		var rows []models.Publisher
		var err error
		if term == "" {
			rows, err = s.client.ListPublishers(ctx)
		} else {
			rows, err = s.client.SearchPublishers(ctx, term)
		}
		return entries(rows, func(p models.Publisher) CatalogEntry { return CatalogEntry{p.ID, p.Name} }), err
	}
	return nil, fmt.Errorf("unknown catalog %q", kind)
}

func (s *catalogService) Create(ctx context.Context, kind CatalogKind, name string) (CatalogEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CatalogEntry{}, fmt.Errorf("%s: name is required", kind)
	}
	in := models.CatalogInput{Name: name}

	switch kind {
	case Authors:
		a, err := s.client.CreateAuthor(ctx, in)
		if err != nil {
			return CatalogEntry{}, err
		}
		return CatalogEntry{a.ID, a.Name}, nil
	case Genres:
		g, err := s.client.CreateGenre(ctx, in)
		if err != nil {
			return CatalogEntry{}, err
		}
		return CatalogEntry{g.ID, g.Name}, nil
	case Publishers:
		p, err := s.client.CreatePublisher(ctx, in)
		if err != nil {
			return CatalogEntry{}, err
		}
		return CatalogEntry{p.ID, p.Name}, nil
	}
	return CatalogEntry{}, fmt.Errorf("unknown catalog %q", kind)
}

func entries[T any](rows []T, conv func(T) CatalogEntry) []CatalogEntry {
	if rows == nil {
		return nil
	}
	out := make([]CatalogEntry, len(rows))
	for i, r := range rows {
		out[i] = conv(r)
	}
	return out
}
