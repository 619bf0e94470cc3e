// Package models defines the resources the CLI reads from and writes to the
// bookshelf server.
package models

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidBook = errors.New("invalid book")

type Book struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Publisher    string  `json:"publisher"`
	Price        float64 `json:"price"`
	Availability int     `json:"availability"`
	Genre        string  `json:"genre"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

// BookPage is one page of a book listing. Count is the total number of rows
// matching the filters, not the length of Rows.
type BookPage struct {
	Rows  []Book `json:"rows"`
	Count int    `json:"count"`
}

// ImageFile is a cover image uploaded with a book.
type ImageFile struct {
	Name    string
	Content []byte
}

// BookInput is the form sent when a book is created or updated. Image takes
// precedence over ImageURL when both are set.
type BookInput struct {
	Title        string
	Author       string
	Publisher    string
	Price        float64
	Availability int
	Genre        string

	Image    *ImageFile
	ImageURL string
}

func (in BookInput) Validate() error {
	var problems []string
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		problems = append(problems, "author is required")
	}
	if in.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if in.Availability < 0 {
		problems = append(problems, "availability must not be negative")
	}
	if in.Image != nil && len(in.Image.Content) == 0 {
		problems = append(problems, "image is empty")
	}
	if len(problems) > 0 {
		return errors.Join(ErrInvalidBook, errors.New(strings.Join(problems, "; ")))
	}
	return nil
}

// FormField is one text field of the multipart book form.
type FormField struct {
	Name  string
	Value string
}

// Fields returns the text fields of the form in the order the server reads
// them. The image file part is not included.
func (in BookInput) Fields() []FormField {
	fields := []FormField{
		{Name: "title", Value: in.Title},
		{Name: "author", Value: in.Author},
		{Name: "publisher", Value: in.Publisher},
		{Name: "price", Value: strconv.FormatFloat(in.Price, 'f', -1, 64)},
		{Name: "availability", Value: strconv.Itoa(in.Availability)},
		{Name: "genre", Value: in.Genre},
	}
	if in.Image == nil && in.ImageURL != "" {
		fields = append(fields, FormField{Name: "imageUrl", Value: in.ImageURL})
	}
	return fields
}

// Input returns the form that recreates b, keeping its image URL.
func (b Book) Input() BookInput {
	return BookInput{
		Title:        b.Title,
		Author:       b.Author,
		Publisher:    b.Publisher,
		Price:        b.Price,
		Availability: b.Availability,
		Genre:        b.Genre,
		ImageURL:     b.ImageURL,
	}
}
