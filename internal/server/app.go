// Package server wires the pieces of the portfolio CMS backend together:
// configuration, database, migrations, the credential store, the token
// issuer and the HTTP API. It also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/davidmr/portfoliocms/internal/logging"
	"github.com/davidmr/portfoliocms/internal/server/auth"
	"github.com/davidmr/portfoliocms/internal/server/config"
	"github.com/davidmr/portfoliocms/internal/server/httpapi"
	"github.com/davidmr/portfoliocms/internal/server/repositories/repomanager"
	"github.com/davidmr/portfoliocms/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	rm          repomanager.RepositoryManager
	userService *users.Service
	tokens      *auth.Manager
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	us := users.NewService(db, rm)
	tokens := auth.NewManager(cfg.SecretKey, cfg.TokenValidityDuration)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		rm:          rm,
		userService: us,
		tokens:      tokens,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepare runs migrations and seeds the initial admin account when the
// credential store is empty.
func (app *App) prepare(ctx context.Context) error {
	if err := app.rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if app.config.AdminEmail == "" {
		return nil
	}

	created, err := app.userService.Seed(ctx, app.config.AdminName, app.config.AdminEmail, app.config.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		app.logger.Info(ctx, "seeded initial admin account", "email", app.config.AdminEmail)
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.userService, app.tokens, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddr, h, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.prepare(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
