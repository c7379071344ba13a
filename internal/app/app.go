package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/database"
	"github.com/vancomm/minesweeper-board/internal/journal"
	"github.com/vancomm/minesweeper-board/internal/middleware"
	"github.com/vancomm/minesweeper-board/internal/repository"
)

type App struct {
	logger  *slog.Logger
	router  *http.ServeMux
	store   repository.Store
	cookies *config.Cookies
	jwt     *config.JWT
	ws      *config.WebSocket
	journal *journal.Journal
}

func New(logger *slog.Logger) *App {
	router := http.NewServeMux()

	app := &App{
		logger: logger,
		router: router,
	}

	return app
}

func (a *App) configure() (err error) {
	if a.cookies, err = config.NewCookies(); err != nil {
		return fmt.Errorf("failed to read cookies config: %w", err)
	}
	if a.jwt, err = config.NewJWT(); err != nil {
		return fmt.Errorf("failed to read jwt config: %w", err)
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return fmt.Errorf("failed to read ws config: %w", err)
	}
	journalConfig, err := config.NewJournal()
	if err != nil {
		return err
	}
	if a.journal, err = journal.New(journalConfig); err != nil {
		return fmt.Errorf("unable to open journal: %w", err)
	}
	return nil
}

// Handler wraps the routes in the request middleware. The first middleware
// sees the request first.
func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(config.AllowedOrigins()...),
		middleware.Auth(a.logger, a.cookies, a.jwt),
	)
}

// Start connects to the database, applies migrations and serves until ctx
// is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.configure(); err != nil {
		return err
	}

	db, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info("database migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	migrator.Close()

	a.store = repository.NewPostgres(db)
	a.loadRoutes()

	addr := config.Port()
	server := &http.Server{
		Addr:         addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      a.Handler(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
