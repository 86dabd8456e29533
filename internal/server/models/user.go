// Package models defines server-side data structures.
package models

import "time"

// Account roles. Authorization decisions key off these values.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is one account record. PasswordHash is never serialized to callers.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
