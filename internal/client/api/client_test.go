package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "admin@x.com", req["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok-123",
			"user":    map[string]any{"id": "u1", "email": "admin@x.com", "role": "admin"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	token, account, err := c.Login(context.Background(), "admin@x.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "admin", account.Role)
}

func TestLogin_FailureSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, _, err := c.Login(context.Background(), "admin@x.com", "nope")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestMe_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"id": "u1", "email": "admin@x.com", "role": "admin"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.SetToken("tok-abc")

	account, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", account.ID)
}

func TestClearToken_StopsSendingHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"status": "OK"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.SetToken("tok-abc")
	c.ClearToken()

	require.NoError(t, c.Ping(context.Background()))
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewClient(srv.URL, time.Second)
	err := c.Ping(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestChangePassword_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/auth/password", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "old-pass1", req["currentPassword"])
		require.Equal(t, "new-pass1", req["newPassword"])

		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "password updated"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.SetToken("tok")
	require.NoError(t, c.ChangePassword(context.Background(), "old-pass1", "new-pass1"))
}

func TestNonJSONFailureBody_StillReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Ping(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
