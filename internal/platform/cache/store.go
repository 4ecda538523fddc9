// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"time"
)

// Store is the byte-level cache capability shared by the decorators.
// A zero or negative ttl on Set means the entry is not stored.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Clock abstracts time.Now so expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
