// Package common defines shared constants and sentinel errors used across
// the client and server layers of the portfolio CMS. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account errors. ErrorInvalidCredentials covers both "no such account"
	// and "wrong password"; the two cases must stay indistinguishable to
	// callers.
	ErrorAlreadyExists      = errors.New("email already registered")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorWeakPassword       = errors.New("password must be at least 6 characters")
	ErrorInvalidEmail       = errors.New("invalid email")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
