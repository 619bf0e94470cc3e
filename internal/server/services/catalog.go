package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
)

const maxNameLength = 200

// CatalogService serves the author, genre and publisher lists.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *CatalogService {
	return &CatalogService{db: db, repomanager: m, log: log}
}

func (s *CatalogService) Search(ctx context.Context, kind catalog.Kind, term string) ([]models.CatalogItem, error) {
	return s.repomanager.Catalog(s.db).Search(ctx, kind, term)
}

func (s *CatalogService) Create(ctx context.Context, kind catalog.Kind, name string) (*models.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name is longer than %d characters", common.ErrorValidation, maxNameLength)
	}

	it, err := s.repomanager.Catalog(s.db).Create(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "catalog item created", "kind", string(kind), "id", it.ID)
	return it, nil
}
