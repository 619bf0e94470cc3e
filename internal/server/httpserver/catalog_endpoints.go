package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
)

func (h *Handler) searchCatalog(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.catalog.Search(c.Request.Context(), kind, c.Query("search"))
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCatalogResponse(items))
	}
}

func (h *Handler) createCatalogItem(kind catalog.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name is required")
			return
		}
		item, err := h.catalog.Create(c.Request.Context(), kind, req.Name)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, catalogItemResponse{ID: item.ID, Name: item.Name})
	}
}
