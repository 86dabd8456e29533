// Package session owns the client's authentication state. It combines the
// API client with durable local token storage so a login survives process
// restarts, and collapses every 401 into a reset back to the anonymous state.
package session

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/davidmr/portfoliocms/internal/client/api"
	"github.com/davidmr/portfoliocms/internal/client/repositories/metadata"
	"github.com/davidmr/portfoliocms/internal/common"
)

// State is the session lifecycle phase.
type State string

const (
	StateAnonymous     State = "anonymous"
	StatePending       State = "pending"
	StateAuthenticated State = "authenticated"
)

// apiClient is the slice of the API client the controller needs.
// *api.Client satisfies it; tests can substitute a stub.
type apiClient interface {
	SetToken(token string)
	ClearToken()
	Register(ctx context.Context, name, email, password string) (string, *api.Account, error)
	Login(ctx context.Context, email, password string) (string, *api.Account, error)
	Me(ctx context.Context) (*api.Account, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	Ping(ctx context.Context) error
}

// Controller drives the session state machine. All transitions are
// serialized by a mutex so a bootstrap and a login cannot interleave.
type Controller struct {
	api apiClient
	db  *sql.DB

	mu      sync.Mutex
	state   State
	account *api.Account
}

func New(client apiClient, db *sql.DB) *Controller {
	return &Controller{api: client, db: db, state: StateAnonymous}
}

func (c *Controller) metadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(c.db)
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Account returns the authenticated account, or nil when anonymous.
func (c *Controller) Account() *api.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

// reset drops all session state, local and in-memory. The caller must hold c.mu.
func (c *Controller) reset(ctx context.Context) {
	_ = c.metadataRepo().Delete(ctx, common.TokenStorageKey)
	c.api.ClearToken()
	c.state = StateAnonymous
	c.account = nil
}

// establish records a fresh authenticated session. The caller must hold c.mu.
func (c *Controller) establish(ctx context.Context, token string, account *api.Account) error {
	if err := c.metadataRepo().Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
		return err
	}
	c.api.SetToken(token)
	c.state = StateAuthenticated
	c.account = account
	return nil
}

// Bootstrap restores a persisted session. With no stored token it lands
// anonymous immediately. With one, it goes pending and validates the token
// against the server; any failure wipes the stored token and lands
// anonymous, so a stale token never lingers.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := c.metadataRepo().Get(ctx, common.TokenStorageKey)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		c.state = StateAnonymous
		return nil
	}

	c.state = StatePending
	c.api.SetToken(string(token))

	account, err := c.api.Me(ctx)
	if err != nil {
		c.reset(ctx)
		return err
	}

	c.state = StateAuthenticated
	c.account = account
	return nil
}

// Login exchanges credentials for a session. Server rejections are returned
// verbatim so the caller can show the server's message.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StatePending
	token, account, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.state = StateAnonymous
		return err
	}
	return c.establish(ctx, token, account)
}

// Register creates an account and, like the server, logs it straight in.
func (c *Controller) Register(ctx context.Context, name, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StatePending
	token, account, err := c.api.Register(ctx, name, email, password)
	if err != nil {
		c.state = StateAnonymous
		return err
	}
	return c.establish(ctx, token, account)
}

// Logout is local only: it discards the persisted token and returns to
// anonymous without a server round-trip. Stateless tokens cannot be
// revoked server-side anyway.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset(ctx)
	return nil
}

// ChangePassword rotates the authenticated account's password. A 401 means
// the session is no longer valid and resets it.
func (c *Controller) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAuthenticated {
		return api.ErrUnauthorized
	}

	err := c.api.ChangePassword(ctx, currentPassword, newPassword)
	if errors.Is(err, api.ErrUnauthorized) {
		c.reset(ctx)
	}
	return err
}

// Refresh re-resolves the authenticated account from the server. A 401
// resets the session.
func (c *Controller) Refresh(ctx context.Context) (*api.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAuthenticated {
		return nil, api.ErrUnauthorized
	}

	account, err := c.api.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			c.reset(ctx)
		}
		return nil, err
	}
	c.account = account
	return account, nil
}

// Ping proxies a liveness probe for the online-status watcher.
func (c *Controller) Ping(ctx context.Context) error {
	return c.api.Ping(ctx)
}
