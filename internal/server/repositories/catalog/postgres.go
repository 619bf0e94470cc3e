package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

const searchLimit = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// table returns the table for kind. Only known kinds reach SQL text.
func table(kind Kind) (string, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return "", err
	}
	return string(kind), nil
}

func (r *PostgresRepository) Search(ctx context.Context, kind Kind, term string) ([]models.CatalogItem, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, name FROM ` + t + ` WHERE name ILIKE $1 ORDER BY name LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, "%"+likeEscaper.Replace(strings.TrimSpace(term))+"%", searchLimit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.CatalogItem{}
	for rows.Next() {
		var it models.CatalogItem
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, kind Kind, name string) (*models.CatalogItem, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}

	it := &models.CatalogItem{Name: name}
	query := `INSERT INTO ` + t + ` (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&it.ID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return it, nil
}
