package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
)

// Authors, genres and publishers share one shape on the wire, so the three
// catalogs go through the same helpers.

func listCatalog[T any](ctx context.Context, c *HTTPClient, endpoint, term string) ([]T, error) {
	u := c.endpoints.URL(endpoint)
	if term != "" {
		u += "?" + url.Values{"search": {term}}.Encode()
	}

	var out []T
	if err := c.call(ctx, http.MethodGet, u, nil, "", &out); err != nil {
		return nil, mapError("list "+endpoint, err)
	}
	return out, nil
}

func createCatalog[T any](ctx context.Context, c *HTTPClient, endpoint string, in models.CatalogInput) (*T, error) {
	var out T
	if err := c.callJSON(ctx, http.MethodPost, c.endpoints.URL(endpoint), in, &out); err != nil {
		return nil, mapError("create "+endpoint, err)
	}
	return &out, nil
}

func (c *HTTPClient) ListAuthors(ctx context.Context) ([]models.Author, error) {
	return listCatalog[models.Author](ctx, c, EndpointAuthors, "")
}

func (c *HTTPClient) SearchAuthors(ctx context.Context, term string) ([]models.Author, error) {
	return listCatalog[models.Author](ctx, c, EndpointAuthors, term)
}

func (c *HTTPClient) CreateAuthor(ctx context.Context, in models.CatalogInput) (*models.Author, error) {
	return createCatalog[models.Author](ctx, c, EndpointAuthors, in)
}

func (c *HTTPClient) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return listCatalog[models.Genre](ctx, c, EndpointGenres, "")
}

func (c *HTTPClient) SearchGenres(ctx context.Context, term string) ([]models.Genre, error) {
	return listCatalog[models.Genre](ctx, c, EndpointGenres, term)
}

func (c *HTTPClient) CreateGenre(ctx context.Context, in models.CatalogInput) (*models.Genre, error) {
	return createCatalog[models.Genre](ctx, c, EndpointGenres, in)
}

func (c *HTTPClient) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	return listCatalog[models.Publisher](ctx, c, EndpointPublishers, "")
}

func (c *HTTPClient) SearchPublishers(ctx context.Context, term string) ([]models.Publisher, error) {
	return listCatalog[models.Publisher](ctx, c, EndpointPublishers, term)
}

func (c *HTTPClient) CreatePublisher(ctx context.Context, in models.CatalogInput) (*models.Publisher, error) {
	return createCatalog[models.Publisher](ctx, c, EndpointPublishers, in)
}
