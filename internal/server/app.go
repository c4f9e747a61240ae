// Package server wires the application together: configuration, logging,
// the storage backend, and the services on top of it. When the backend
// cannot be reached at startup the app comes up anyway and serves every
// session from its ephemeral stores.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/logging"
	"github.com/dkrasnova/fintrack/internal/server/config"
	"github.com/dkrasnova/fintrack/internal/server/repositories/repomanager"
	"github.com/dkrasnova/fintrack/internal/server/services"
	"github.com/dkrasnova/fintrack/internal/server/session"
)

var sqlOpen = sql.Open

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	manager repomanager.RepositoryManager

	Auth    *services.AuthService
	Gateway *services.Gateway
	Export  *services.ExportService
}

// NewApp builds the application. A storage backend that cannot be opened or
// migrated is logged and dropped, never fatal; the app then runs in demo
// mode and every identity is routed to session stores.
func NewApp(cfg *config.Config) *App {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := &App{config: cfg, logger: logger}

	ctx := context.Background()
	db, manager, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Warn(ctx, "storage backend unavailable, running in demo mode", "err", err)
	} else {
		app.db = db
		app.manager = manager
		logger.Info(ctx, "storage backend ready")
	}

	app.Auth = services.NewAuthService(app.db, app.manager, cfg, logger)
	app.Gateway = services.NewGateway(app.db, app.manager, logger)
	app.Export = services.NewExportService(app.Gateway, cfg)

	return app
}

// openBackend opens the database, verifies connectivity, and applies
// migrations. Any failure closes the handle and reports the backend as
// unavailable.
func openBackend(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	return db, manager, nil
}

// NewSession creates the ephemeral store context for one interactive session.
func (app *App) NewSession() (*session.Session, error) {
	return session.New()
}

// RemoteAvailable reports whether a storage backend was configured at startup.
func (app *App) RemoteAvailable() bool {
	return app.db != nil
}

// Close releases the storage backend, if one was opened.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
