package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		badRequest(c, "email and password are required")
		return
	}

	pair, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	loginsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		refreshesTotal.WithLabelValues("failure").Inc()
		badRequest(c, "refresh_token is required")
		return
	}

	pair, err := h.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	refreshesTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// logout revokes the refresh token. Unknown tokens are not an error.
func (h *Handler) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}

	if err := h.users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
