package cache

import (
	"context"
	"time"
)

// Cache is the small key-value surface the monitor needs for alert-cooldown
// state. Get returns an empty string, not an error, for a missing key.
type Cache interface {
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
