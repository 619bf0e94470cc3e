package models

import "time"

// Book is a catalog entry. ImageKey is the object key of an uploaded cover
// and takes precedence over ImageURL, which holds an external link.
type Book struct {
	ID           int64
	Title        string
	Author       string
	Publisher    string
	Genre        string
	Price        float64
	Availability int
	ImageKey     string
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookPage is one page of a filtered listing plus the total match count.
type BookPage struct {
	Rows  []Book
	Count int
}
