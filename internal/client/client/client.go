package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/dmitrijs2005/bookshelf/internal/client/pipeline"
	"github.com/dmitrijs2005/bookshelf/internal/client/query"
)

type Client interface {
	Ping(ctx context.Context) error

	ListBooks(ctx context.Context, page query.PageRequest, filters []query.FilterItem, sorts []query.SortItem) (*models.BookPage, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	ExportCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, filename string, data io.Reader) error

	ListAuthors(ctx context.Context) ([]models.Author, error)
	SearchAuthors(ctx context.Context, term string) ([]models.Author, error)
	CreateAuthor(ctx context.Context, in models.CatalogInput) (*models.Author, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	SearchGenres(ctx context.Context, term string) ([]models.Genre, error)
	CreateGenre(ctx context.Context, in models.CatalogInput) (*models.Genre, error)
	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	SearchPublishers(ctx context.Context, term string) ([]models.Publisher, error)
	CreatePublisher(ctx context.Context, in models.CatalogInput) (*models.Publisher, error)
}

// Sender sends a request with credentials attached. *pipeline.Pipeline
// satisfies it.
type Sender interface {
	Do(ctx context.Context, req *pipeline.Request) (*http.Response, error)
}

type HTTPClient struct {
	sender    Sender
	endpoints Endpoints
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(sender Sender, endpoints Endpoints) *HTTPClient {
	return &HTTPClient{sender: sender, endpoints: endpoints}
}

// Ping checks that the server answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if err := c.call(ctx, http.MethodGet, c.endpoints.URL(EndpointHealth), nil, "", nil); err != nil {
		return mapError("ping", err)
	}
	return nil
}

// send returns the response of a 2xx call. Anything else is turned into an
// error and the body is closed.
func (c *HTTPClient) send(ctx context.Context, method, url string, body []byte, contentType string) (*http.Response, error) {
	req := pipeline.NewRequest(method, url, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.sender.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := pipeline.CheckResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// call sends the request and decodes a JSON response into out. A nil out
// discards the body.
func (c *HTTPClient) call(ctx context.Context, method, url string, body []byte, contentType string, out any) error {
	resp, err := c.send(ctx, method, url, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) callJSON(ctx context.Context, method, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.call(ctx, method, url, body, "application/json", out)
}
