package cache

import (
	"context"
	"time"
)

// Store is a TTL key-value cache for JSON-serializable values.
// Entries expire strictly by TTL comparison at read time; there is no
// event-driven invalidation.
// ⭐ SSOT: 缓存读写只通过这个接口
type Store interface {
	// Get unmarshals the cached value for key into dest.
	// Returns false when the key is absent or expired.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a cached value.
	Delete(ctx context.Context, key string) error
}
