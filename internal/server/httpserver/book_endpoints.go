package httpserver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
)

const (
	// maxBookFormSize leaves room for the text fields next to the cover.
	maxBookFormSize = services.MaxCoverSize + 1<<20
	maxImportSize   = 16 << 20
)

func (h *Handler) listBooks(c *gin.Context) {
	page, err := h.books.List(c.Request.Context(), c.Request.URL.RawQuery)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookPageResponse(c, page))
}

func (h *Handler) getBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	book, err := h.books.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(c, book))
}

func (h *Handler) createBook(c *gin.Context) {
	in, ok := h.bookInput(c)
	if !ok {
		return
	}
	book, err := h.books.Create(c.Request.Context(), in)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookResponse(c, book))
}

func (h *Handler) updateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	in, ok := h.bookInput(c)
	if !ok {
		return
	}
	book, err := h.books.Update(c.Request.Context(), id, in)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(c, book))
}

func (h *Handler) deleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if err := h.books.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bookCover redirects to a short-lived link for the uploaded cover.
func (h *Handler) bookCover(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	u, err := h.books.CoverURL(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}

func (h *Handler) exportBooks(c *gin.Context) {
	data, err := h.books.Export(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="books.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) importBooks(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fh, err := c.FormFile("file")
	if err != nil {
		h.formError(c, "file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.handleServiceError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	n, err := h.books.Import(c.Request.Context(), f)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	booksImportedTotal.Add(float64(n))
	c.JSON(http.StatusOK, importResponse{Imported: n})
}

// bookInput reads the multipart book form. It writes the error response
// itself and reports false when the form is unusable.
func (h *Handler) bookInput(c *gin.Context) (services.BookInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBookFormSize)
	if err := c.Request.ParseMultipartForm(maxBookFormSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.formError(c, "form", err)
		return services.BookInput{}, false
	}

	in := services.BookInput{
		Title:     c.PostForm("title"),
		Author:    c.PostForm("author"),
		Publisher: c.PostForm("publisher"),
		Genre:     c.PostForm("genre"),
		ImageURL:  c.PostForm("imageUrl"),
	}

	var err error
	if in.Price, err = formFloat(c.PostForm("price")); err != nil {
		h.handleServiceError(c, fmt.Errorf("%w: price must be a number", common.ErrorValidation))
		return services.BookInput{}, false
	}
	if in.Availability, err = formInt(c.PostForm("availability")); err != nil {
		h.handleServiceError(c, fmt.Errorf("%w: availability must be a whole number", common.ErrorValidation))
		return services.BookInput{}, false
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		h.formError(c, "image", err)
		return services.BookInput{}, false
	default:
		img, err := readUpload(fh)
		if err != nil {
			h.handleServiceError(c, err)
			return services.BookInput{}, false
		}
		in.Image = img
	}

	return in, true
}

func (h *Handler) formError(c *gin.Context, field string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Code:    ErrCodeTooLarge,
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	h.log.Debug("Malformed form", zap.String("field", field), zap.Error(err))
	badRequest(c, "missing or malformed "+field)
}

func readUpload(fh *multipart.FileHeader) (*services.Upload, error) {
	if fh.Size > services.MaxCoverSize {
		return nil, fmt.Errorf("%w: image is too large", common.ErrorValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, services.MaxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &services.Upload{Name: fh.Filename, Content: content}, nil
}

// formFloat and formInt treat a blank field as zero.
func formFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

func formInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "book id must be a positive integer")
		return 0, false
	}
	return id, true
}
