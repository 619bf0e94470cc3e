// Package httpserver exposes the bookshelf services over HTTP using gin.
package httpserver

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
)

// UserService is the part of services.UserService the auth endpoints use.
type UserService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type BookService interface {
	List(ctx context.Context, rawQuery string) (*models.BookPage, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in services.BookInput) (*models.Book, error)
	Update(ctx context.Context, id int64, in services.BookInput) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
	CoverURL(ctx context.Context, id int64) (string, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, r io.Reader) (int, error)
}

type CatalogService interface {
	Search(ctx context.Context, kind catalog.Kind, term string) ([]models.CatalogItem, error)
	Create(ctx context.Context, kind catalog.Kind, name string) (*models.CatalogItem, error)
}

// Handler owns the HTTP endpoints.
type Handler struct {
	users     UserService
	books     BookService
	catalog   CatalogService
	secretKey []byte
	log       *zap.Logger
}

func NewHandler(users UserService, books BookService, catalog CatalogService, secretKey []byte, log *zap.Logger) *Handler {
	return &Handler{users: users, books: books, catalog: catalog, secretKey: secretKey, log: log}
}

// RegisterRoutes mounts every endpoint on router. Everything except auth,
// cover redirects, health and metrics requires a bearer token.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := router.Group("/auth")
	authGroup.POST("/login", h.login)
	authGroup.POST("/refresh", h.refresh)
	authGroup.POST("/logout", h.logout)

	router.GET("/books/:id/cover", h.bookCover)

	protected := router.Group("/", h.AuthMiddleware())

	protected.GET("/books", h.listBooks)
	protected.GET("/books/export/csv", h.exportBooks)
	protected.POST("/books/import/csv", h.importBooks)
	protected.GET("/books/:id", h.getBook)
	protected.POST("/books", h.createBook)
	protected.PUT("/books/:id", h.updateBook)
	protected.DELETE("/books/:id", h.deleteBook)

	for _, kind := range catalog.Kinds {
		protected.GET("/"+string(kind), h.searchCatalog(kind))
		protected.POST("/"+string(kind), h.createCatalogItem(kind))
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewRouter builds the gin engine with logging, recovery and CORS in front
// of h's routes.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.MaxMultipartMemory = services.MaxCoverSize
	router.Use(RequestLogger(h.log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.AllowCredentials = len(allowedOrigins) > 0
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	h.RegisterRoutes(router)
	return router
}
