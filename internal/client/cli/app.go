package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/auth"
	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/config"
	"github.com/dmitrijs2005/bookshelf/internal/client/credentials"
	"github.com/dmitrijs2005/bookshelf/internal/client/pipeline"
	"github.com/dmitrijs2005/bookshelf/internal/client/services"
	"github.com/dmitrijs2005/bookshelf/internal/client/storage"
	"github.com/dmitrijs2005/bookshelf/internal/filex"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config         *config.Config
	authService    services.AuthService
	bookService    services.BookService
	catalogService services.CatalogService
	db             *sql.DB
	reader         *bufio.Reader
	out            io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	log := logging.NewTextLogger(os.Stderr, c.LogLevel)
	store := credentials.NewPersistentStore(db)
	httpClient := &http.Client{Timeout: c.RequestTimeout}
	ep := c.Resolve()

	api := auth.NewAPI(httpClient,
		ep.URL(client.EndpointLogin),
		ep.URL(client.EndpointRefresh),
		ep.URL(client.EndpointLogout),
	)
	events := auth.NewEvents()
	coord := auth.NewCoordinator(store, api, events, log, c.RefreshTimeout)
	p := pipeline.New(httpClient, store, coord, pipeline.WithLogger(log))
	apiClient := client.NewHTTPClient(p, ep)

	a := &App{
		config:         c,
		authService:    services.NewAuthService(auth.NewSession(store, api, log), store, apiClient),
		bookService:    services.NewBookService(apiClient),
		catalogService: services.NewCatalogService(apiClient),
		db:             db,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}

	if err := events.OnSessionEnded(a.sessionEnded); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) sessionEnded(ev auth.SessionEnded) {
	fmt.Fprintf(a.out, "Session ended (%v). Please log in again.\n", ev.Reason)
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

// Run starts the health watcher and blocks in the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to bookshelf CLI (type 'help' for commands)")

	if a.config.HealthInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.HealthInterval)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	st, err := a.authService.Status(context.Background())
	return err == nil && st.LoggedIn
}

// status renders the prompt suffix, e.g. "online, logged in".
func (a *App) status() string {
	s := "guest"
	if a.isLoggedIn() {
		s = "logged in"
	}
	if m := a.Mode(); m != ModeUnknown {
		s = string(m) + ", " + s
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode when reachability changes. The first ping happens immediately.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := a.authService.Ping(pingCtx)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			a.setMode(ModeOffline)
		} else {
			a.setMode(ModeOnline)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
