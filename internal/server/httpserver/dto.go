package httpserver

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type bookResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Publisher    string  `json:"publisher"`
	Price        float64 `json:"price"`
	Availability int     `json:"availability"`
	Genre        string  `json:"genre"`
	ImageURL     string  `json:"imageUrl,omitempty"`
}

type bookPageResponse struct {
	Rows  []bookResponse `json:"rows"`
	Count int            `json:"count"`
}

type catalogItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type catalogCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

// toBookResponse renders an uploaded cover as an absolute link to the
// redirect endpoint so clients never see object keys.
func toBookResponse(c *gin.Context, b *models.Book) bookResponse {
	img := b.ImageURL
	if b.ImageKey != "" {
		img = baseURL(c) + services.CoverLink(b.ID)
	}
	return bookResponse{
		ID:           b.ID,
		Title:        b.Title,
		Author:       b.Author,
		Publisher:    b.Publisher,
		Price:        b.Price,
		Availability: b.Availability,
		Genre:        b.Genre,
		ImageURL:     img,
	}
}

func toBookPageResponse(c *gin.Context, p *models.BookPage) bookPageResponse {
	rows := make([]bookResponse, 0, len(p.Rows))
	for i := range p.Rows {
		rows = append(rows, toBookResponse(c, &p.Rows[i]))
	}
	return bookPageResponse{Rows: rows, Count: p.Count}
}

func toCatalogResponse(items []models.CatalogItem) []catalogItemResponse {
	out := make([]catalogItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, catalogItemResponse{ID: it.ID, Name: it.Name})
	}
	return out
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}
