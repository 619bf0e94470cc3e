package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/listquery"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

const columns = `id, title, author, publisher, genre, price, availability, image_key, image_url, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*models.Book, error) {
	b := &models.Book{}
	err := s.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Genre, &b.Price, &b.Availability,
		&b.ImageKey, &b.ImageURL, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresRepository) List(ctx context.Context, q listquery.ListQuery) (*models.BookPage, error) {
	where, orderBy, args := q.SQL("id ASC")

	page := &models.BookPage{Rows: []models.Book{}}

	countQuery := `SELECT COUNT(*) FROM books ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&page.Count); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	n := len(args)
	query := `SELECT ` + columns + ` FROM books ` + where + ` ` + orderBy +
		` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		page.Rows = append(page.Rows, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return page, nil
}

func (r *PostgresRepository) All(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := `
		INSERT INTO books (title, author, publisher, genre, price, availability, image_key, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Publisher, book.Genre, book.Price, book.Availability, book.ImageKey, book.ImageURL,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return book, nil
}

// Update overwrites every editable column of book.ID.
func (r *PostgresRepository) Update(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := `
		UPDATE books
		SET title = $1, author = $2, publisher = $3, genre = $4, price = $5, availability = $6,
		    image_key = $7, image_url = $8, updated_at = now()
		WHERE id = $9
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Publisher, book.Genre, book.Price, book.Availability,
		book.ImageKey, book.ImageURL, book.ID,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return book, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
