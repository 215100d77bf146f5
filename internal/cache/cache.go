// Package cache stores serialized search results keyed by query.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns ok=false on a miss; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the cache selected by driver ("memory", "redis" or "none").
func New(driver, redisURL string) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(redisURL)
	case "none", "off":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, string) error                     { return nil }
