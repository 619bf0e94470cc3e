package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeValidation    = "validation_error"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeTokenInvalid  = "token_invalid"
	ErrCodeTokenExpired  = "token_expired"
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeTooLarge      = "payload_too_large"
	ErrCodeInternal      = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp ErrorResponse

	switch {
	case errors.Is(err, common.ErrorValidation):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, common.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, common.ErrInvalidToken):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeTokenInvalid, Message: "Token is invalid or malformed"}
	case errors.Is(err, common.ErrRefreshTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeTokenExpired, Message: "Refresh token has expired"}
	case errors.Is(err, common.ErrorUnauthorized):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeUnauthorized, Message: "Invalid credentials"}
	case errors.Is(err, services.ErrNoCover):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeNotFound, Message: "Book has no uploaded cover"}
	case errors.Is(err, common.ErrorNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeNotFound, Message: "Resource not found"}
	case errors.Is(err, common.ErrorAlreadyExists):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeAlreadyExists, Message: "Resource already exists"}
	default:
		h.log.Error("Unhandled internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: msg})
}
