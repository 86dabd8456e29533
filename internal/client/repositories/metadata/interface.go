package metadata

import (
	"context"
)

// Repository is a small key/value store for client-side session state
// (the persisted bearer token and related bookkeeping).
type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
