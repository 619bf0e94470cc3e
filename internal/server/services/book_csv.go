package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// MaxImportRows bounds a single CSV import.
const MaxImportRows = 10000

var csvHeader = []string{"id", "title", "author", "publisher", "genre", "price", "availability", "imageUrl"}

// Export renders every book as CSV with a header row. Uploaded covers are
// exported as their API link.
func (s *BookService) Export(ctx context.Context) ([]byte, error) {
	all, err := s.repomanager.Books(s.db).All(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, b := range all {
		img := b.ImageURL
		if b.ImageKey != "" {
			img = CoverLink(b.ID)
		}
		rec := []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			b.Author,
			b.Publisher,
			b.Genre,
			strconv.FormatFloat(b.Price, 'f', -1, 64),
			strconv.Itoa(b.Availability),
			img,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import creates one book per CSV row inside a single transaction, so a bad
// row leaves the catalog untouched. Columns are matched by header name;
// "title" and "author" are required, "id" is ignored.
func (s *BookService) Import(ctx context.Context, r io.Reader) (int, error) {
	inputs, err := parseBooksCSV(r)
	if err != nil {
		return 0, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Books(tx)
		for _, in := range inputs {
			b := &models.Book{}
			apply(b, in)
			if _, err := repo.Create(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "books imported", "count", len(inputs))
	return len(inputs), nil
}

func parseBooksCSV(r io.Reader) ([]BookInput, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv is empty", common.ErrorValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"title", "author"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: csv header lacks %q", common.ErrorValidation, required)
		}
	}

	var inputs []BookInput
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		if len(inputs) == MaxImportRows {
			return nil, fmt.Errorf("%w: more than %d rows", common.ErrorValidation, MaxImportRows)
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		in := BookInput{
			Title:     get("title"),
			Author:    get("author"),
			Publisher: get("publisher"),
			Genre:     get("genre"),
			ImageURL:  get("imageurl"),
		}
		if strings.HasPrefix(in.ImageURL, "/") {
			in.ImageURL = ""
		}
		if v := get("price"); v != "" {
			if in.Price, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: price %q is not a number", common.ErrorValidation, line, v)
			}
		}
		if v := get("availability"); v != "" {
			if in.Availability, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("%w: line %d: availability %q is not a whole number", common.ErrorValidation, line, v)
			}
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		inputs = append(inputs, in)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: csv has no rows", common.ErrorValidation)
	}
	return inputs, nil
}
