// Package httpapi exposes the auth REST surface and the middleware gating
// protected endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/davidmr/portfoliocms/internal/common"
	"github.com/davidmr/portfoliocms/internal/logging"
	"github.com/davidmr/portfoliocms/internal/server/auth"
	"github.com/davidmr/portfoliocms/internal/server/models"
	"github.com/davidmr/portfoliocms/internal/server/users"
)

type Handler struct {
	users  *users.Service
	tokens *auth.Manager
	log    logging.Logger
}

func NewHandler(us *users.Service, tokens *auth.Manager, log logging.Logger) *Handler {
	return &Handler{users: us, tokens: tokens, log: log}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Register creates an account and immediately logs it in by minting a token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			writeFailure(w, http.StatusConflict, err.Error())
		case errors.Is(err, common.ErrorWeakPassword), errors.Is(err, common.ErrorInvalidEmail):
			writeFailure(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error(r.Context(), "register failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.log.Error(r.Context(), "token issue failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Success: true, Token: token, User: user})
}

// Login verifies credentials and mints a token. Unknown identity and wrong
// password produce the identical 401 response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeFailure(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error(r.Context(), "login failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.log.Error(r.Context(), "token issue failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, Token: token, User: user})
}

// Me returns the account the presented token resolves to.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

// ChangePassword rotates the caller's password after re-verifying the
// current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.users.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidCredentials):
			writeFailure(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, common.ErrorWeakPassword):
			writeFailure(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error(r.Context(), "password change failed", "error", err)
			writeFailure(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "password updated"})
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
