package common

// AuthorizationHeader is the HTTP header that carries the bearer token on
// requests to protected endpoints.
const AuthorizationHeader = "Authorization"

// BearerPrefix prefixes the token value inside the Authorization header.
const BearerPrefix = "Bearer "

// TokenStorageKey is the fixed key under which the client persists its
// session token in local storage.
const TokenStorageKey = "token"

// MinPasswordLength is the minimum accepted password length for new and
// changed passwords.
const MinPasswordLength = 6
