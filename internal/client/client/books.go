package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
	"github.com/dmitrijs2005/bookshelf/internal/client/query"
)

func (c *HTTPClient) ListBooks(ctx context.Context, page query.PageRequest, filters []query.FilterItem, sorts []query.SortItem) (*models.BookPage, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	u := c.endpoints.URL(EndpointBooks) + "?" + query.Compile(page, filters, sorts)

	var out models.BookPage
	if err := c.call(ctx, http.MethodGet, u, nil, "", &out); err != nil {
		return nil, mapError("list books", err)
	}
	return &out, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var out models.Book
	if err := c.call(ctx, http.MethodGet, c.bookURL(id), nil, "", &out); err != nil {
		return nil, mapError("get book", err)
	}
	return &out, nil
}

func (c *HTTPClient) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	body, ct, err := bookForm(in)
	if err != nil {
		return nil, err
	}

	var out models.Book
	if err := c.call(ctx, http.MethodPost, c.endpoints.URL(EndpointBooks), body, ct, &out); err != nil {
		return nil, mapError("create book", err)
	}
	return &out, nil
}

func (c *HTTPClient) UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	body, ct, err := bookForm(in)
	if err != nil {
		return nil, err
	}

	var out models.Book
	if err := c.call(ctx, http.MethodPut, c.bookURL(id), body, ct, &out); err != nil {
		return nil, mapError("update book", err)
	}
	return &out, nil
}

func (c *HTTPClient) DeleteBook(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, c.bookURL(id), nil, "", nil); err != nil {
		return mapError("delete book", err)
	}
	return nil
}

// ExportCSV downloads every book as CSV.
func (c *HTTPClient) ExportCSV(ctx context.Context) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, c.endpoints.URL(EndpointBooks, "export", "csv"), nil, "")
	if err != nil {
		return nil, mapError("export books", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapError("export books", err)
	}
	return data, nil
}

// ImportCSV uploads data as the multipart "file" part.
func (c *HTTPClient) ImportCSV(ctx context.Context, filename string, data io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("import books: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return fmt.Errorf("import books: read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("import books: %w", err)
	}

	u := c.endpoints.URL(EndpointBooks, "import", "csv")
	if err := c.call(ctx, http.MethodPost, u, buf.Bytes(), w.FormDataContentType(), nil); err != nil {
		return mapError("import books", err)
	}
	return nil
}

func (c *HTTPClient) bookURL(id int64) string {
	return c.endpoints.URL(EndpointBooks, strconv.FormatInt(id, 10))
}

// bookForm encodes in as multipart/form-data. The whole form is buffered so
// the pipeline can resend it unchanged.
func bookForm(in models.BookInput) ([]byte, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range in.Fields() {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	if in.Image != nil {
		part, err := w.CreateFormFile("image", in.Image.Name)
		if err != nil {
			return nil, "", fmt.Errorf("write image: %w", err)
		}
		if _, err := part.Write(in.Image.Content); err != nil {
			return nil, "", fmt.Errorf("write image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
