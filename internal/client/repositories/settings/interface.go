// Package settings is a small durable key/value table for session-adjacent
// state (the stored bearer token, last sync markers, feature flags).
package settings

import (
	"context"
)

type Repository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
