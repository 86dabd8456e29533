// Package api is the HTTP client for the portfolio CMS backend. It speaks
// the server's JSON envelopes and maps transport-level failures to
// ErrUnavailable so callers can distinguish "server down" from "rejected".
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/davidmr/portfoliocms/internal/common"
)

// Account is the caller-visible view of a server account.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    *Account `json:"user"`
}

type userResponse struct {
	Success bool     `json:"success"`
	User    *Account `json:"user"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client talks to the backend REST API. The zero value is not usable;
// construct with NewClient. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the attached bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends a JSON request and decodes the response into out (if non-nil).
// Transport errors wrap ErrUnavailable; non-2xx responses become *Error
// carrying the server's failure message.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fr failureResponse
		_ = json.Unmarshal(data, &fr)
		return &Error{StatusCode: resp.StatusCode, Message: fr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// Register creates an account and returns the minted token and account.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, *Account, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User, nil
}

// Login exchanges credentials for a token and the account they belong to.
func (c *Client) Login(ctx context.Context, email, password string) (string, *Account, error) {
	req := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User, nil
}

// Me resolves the attached token to its account.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// ChangePassword rotates the password of the account behind the attached token.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	req := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, "/api/auth/password", req, nil)
}

// Ping checks server liveness via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}
