// Package cli is the interactive admin console. It wraps the session
// controller in a small REPL and keeps an eye on server reachability.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/davidmr/portfoliocms/internal/client/api"
	"github.com/davidmr/portfoliocms/internal/client/config"
	"github.com/davidmr/portfoliocms/internal/client/session"
	"github.com/davidmr/portfoliocms/internal/client/storage"
)

// Mode reflects whether the backend is currently reachable.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// sessionController is the slice of the session controller the CLI needs.
// *session.Controller satisfies it; tests can substitute a stub.
type sessionController interface {
	State() session.State
	Account() *api.Account
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	Refresh(ctx context.Context) (*api.Account, error)
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	session sessionController
	db      *sql.DB
	reader  *bufio.Reader
	Mode    Mode
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	ctrl := session.New(apiClient, db)

	return &App{
		config:  cfg,
		session: ctrl,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.StateAuthenticated
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.db.Close(); err != nil {
			log.Printf("error closing database: %s", err.Error())
		}
	}()
	a.Root(ctx)
}

// StartOnlineStatusWatcher periodically pings the health endpoint and flips
// Mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.session.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
