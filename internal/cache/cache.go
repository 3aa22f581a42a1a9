// Package cache provides the optional metadata cache fronting remote problem
// queries. Cache faults never fail an operation; callers fall back to a
// direct fetch.
package cache

import (
	"context"
	"time"
)

// Cache is the minimal key-value surface the client needs. The abstraction
// keeps redis swappable for an in-memory implementation in tests.
type Cache interface {
	// Get retrieves the value for key; a missing key returns "" and no error.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a key-value pair; ttl 0 means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del deletes one or more keys.
	Del(ctx context.Context, keys ...string) error

	// Ping verifies the cache connection is alive.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
