package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bilingo/internal/config"
	"github.com/phrazzld/bilingo/internal/domain/srs"
	"github.com/phrazzld/bilingo/internal/service"
	"github.com/phrazzld/bilingo/internal/service/auth"
	"github.com/phrazzld/bilingo/internal/service/study"
	"github.com/phrazzld/bilingo/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cardStore store.CardStore

	jwtService   auth.JWTService
	cardService  service.CardService
	studyService study.Service
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.cardStore, err = newCardStore(cfg.Database.Driver, db, logger)
	if err != nil {
		return nil, err
	}

	app.cardService, err = service.NewCardService(app.cardStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.studyService, err = study.NewService(
		app.cardStore,
		db,
		srs.NewDefaultPolicy(),
		logger,
		study.WithReviewRetries(cfg.Study.ReviewRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
