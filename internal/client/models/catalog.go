package models

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Publisher struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CatalogInput creates an author, genre or publisher.
type CatalogInput struct {
	Name string `json:"name"`
}
