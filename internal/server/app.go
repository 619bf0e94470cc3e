// Package server wires configuration, storage, services and the HTTP API
// into a runnable bookshelf server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/covers"
	"github.com/dmitrijs2005/bookshelf/internal/server/httpserver"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookshelf/internal/server/services"
)

// tokenPurgeInterval is how often expired refresh tokens are deleted.
const tokenPurgeInterval = time.Hour

type App struct {
	config      *config.Config
	zap         *zap.Logger
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	server      *httpserver.Server
}

// NewApp opens the database, applies migrations and builds the services.
// The caller must Close the returned App.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	zl, err := logging.NewZap(logging.ZapConfig{Level: c.LogLevel, Encoding: c.LogEncoding})
	if err != nil {
		return nil, err
	}
	logger := logging.NewZapLogger(zl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	applied, err := m.RunMigrations(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	if len(applied) > 0 {
		zl.Info("schema migrated", zap.Int64s("versions", applied))
	}

	store, err := covers.NewS3Store(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cover storage init error: %w", err)
	}

	us := services.NewUserService(db, m, c, logger.With("service", "users"))
	bs := services.NewBookService(db, m, store, logger.With("service", "books"))
	cs := services.NewCatalogService(db, m, logger.With("service", "catalog"))

	h := httpserver.NewHandler(us, bs, cs, []byte(c.SecretKey), zl)
	srv := httpserver.NewServer(c.HTTPAddr, httpserver.NewRouter(h, c.CORSOrigins), zl)

	return &App{config: c, zap: zl, logger: logger, db: db, userService: us, server: srv}, nil
}

// Run seeds the admin account, then serves HTTP and purges expired refresh
// tokens until ctx is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	if err := app.userService.SeedAdmin(ctx, app.config.AdminEmail, app.config.AdminPassword); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.server.Run(ctx) })
	g.Go(func() error {
		app.purgeTokens(ctx, tokenPurgeInterval)
		return nil
	})
	return g.Wait()
}

func (app *App) purgeTokens(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if n, err := app.userService.PurgeExpiredTokens(ctx); err != nil {
			app.logger.Warn(ctx, "refresh token purge failed", "error", err)
		} else if n > 0 {
			app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close releases the database and flushes logs.
func (app *App) Close() error {
	err := app.db.Close()
	_ = app.zap.Sync()
	return err
}
