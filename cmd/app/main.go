package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GameCatalogAPI/external/top100"

	"GameCatalogAPI/internal/config"
	"GameCatalogAPI/internal/db"
	"GameCatalogAPI/internal/logging"
	"GameCatalogAPI/internal/middleware"
	"GameCatalogAPI/internal/repository"
	"GameCatalogAPI/internal/services"
	"GameCatalogAPI/internal/validation"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================
	// INFRA
	// ======================
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	defer closeStore()

	// ======================
	// EXTERNALS
	// ======================
	feed := top100.NewClient(cfg.Top100BaseURL, cfg.Top100Platforms, cfg.FetchTimeout)

	// ======================
	// SERVICES
	// ======================
	gameSvc := services.NewGameService(store, feed, validation.New())

	// ======================
	// SERVER
	// ======================
	e := newServer(gameSvc, cfg.StaticDir)
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	for _, r := range e.Routes() {
		log.Debug().Str("method", r.Method).Str("path", r.Path).Msg("route")
	}

	log.Info().Str("addr", cfg.Addr()).Str("driver", cfg.DBDriver).Msg("server is up")
	return serve(ctx, e, cfg.Addr(), cfg.ShutdownTimeout)
}

// serve runs e on addr until ctx is done, then shuts it down within
// shutdownTimeout. A listen failure is returned instead of exiting so the
// caller's cleanup still runs.
func serve(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// newServer builds the echo instance with middleware and routes.
func newServer(gs *services.GameService, staticDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())

	if staticDir != "" {
		if fi, err := os.Stat(staticDir); err == nil && fi.IsDir() {
			e.Static("/", staticDir)
		}
	}

	api := e.Group("/api")
	registerGameRoutes(api, gs)
	return e
}

func openStore(ctx context.Context, cfg *config.Config) (services.GameStore, func(), error) {
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteGameRepository(sqlDB), func() { _ = sqlDB.Close() }, nil
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGameRepository(pool), pool.Close, nil
}
