// Package storage provides the durable key-value stores that back the session.
package storage

import (
	"context"
	"errors"
)

// Keys persisted by the session store.
const (
	KeyToken = "auth_token"
	KeyUser  = "user"
)

// ErrEmptyKey is returned when a store is asked for the empty key.
var ErrEmptyKey = errors.New("storage key must not be empty")

// KV is a small string key-value store that survives process restarts.
// Get reports whether the key was present; a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
