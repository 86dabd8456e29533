package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/davidmr/portfoliocms/internal/common"
	"github.com/davidmr/portfoliocms/internal/server/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFromContext returns the account attached by the Authenticate
// middleware, if any.
func PrincipalFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(principalKey).(*models.User)
	return user, ok
}

// extractBearerToken pulls the token out of an Authorization header value.
// Returns "" if the header is absent or not in "Bearer <token>" form.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, common.BearerPrefix)
}

// Authenticate gates protected routes. Every rejection — missing header,
// malformed token, bad signature, expiry, vanished account — produces the
// same 401 envelope so callers cannot probe why a token failed. On success
// the resolved account is attached to the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r.Header.Get(common.AuthorizationHeader))
		if token == "" {
			writeFailure(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}

		claims, err := h.tokens.Parse(token)
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}

		// Account may have been removed after the token was minted.
		user, err := h.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
