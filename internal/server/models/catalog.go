package models

// CatalogItem is a row of one of the lookup tables: authors, genres or
// publishers.
type CatalogItem struct {
	ID   int64
	Name string
}
