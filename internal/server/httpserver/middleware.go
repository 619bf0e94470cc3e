package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/server/auth"
)

// userIDKey is the gin context key holding the authenticated user's ID.
const userIDKey = "user_id"

// AuthMiddleware requires a valid bearer access token.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(common.AuthorizationHeaderName)
		if authHeader == "" {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			h.handleServiceError(c, common.ErrInvalidToken)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
			h.log.Debug("Invalid Authorization header format")
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			h.handleServiceError(c, common.ErrInvalidToken)
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], h.secretKey)
		if err != nil {
			h.log.Debug("Access token verification failed", zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			h.handleServiceError(c, err)
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RequestLogger logs one line per request and makes sure every response
// carries an X-Request-ID. Health and metrics scrapes are not logged.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, requestID)

		if path == "/health" || path == "/metrics" {
			c.Next()
			return
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(route, c.Request.Method, strconv.Itoa(status/100)+"xx").Observe(latency.Seconds())

		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", requestID),
		}
		if userID := c.GetString(userIDKey); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors.ByType(gin.ErrorTypeAny) {
				log.Error("Request error", append(fields, zap.Error(ginErr.Err))...)
			}
			return
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Server error", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Client error", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
