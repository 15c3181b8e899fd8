package coordination

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist or has
// already expired.
var ErrKeyNotFound = errors.New("coordination key not found")

// Store is the shared key/value substrate the lock manager and task registry
// are built on. Implementations must make SetIfAbsent and CompareAndDelete
// atomic with respect to concurrent callers on other processes; everything
// above this interface relies on that.
//
// The store handle is injected into the components that need it so tests can
// substitute MemoryStore for the Redis-backed implementation.
type Store interface {
	// SetIfAbsent stores value under key with the given TTL only if the key
	// does not currently exist. Returns true iff this call created the key.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// CompareAndDelete removes key only if its current value equals value,
	// as a single atomic operation. Returns true iff the key was deleted.
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)

	// Delete removes key unconditionally. Returns true iff the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether key currently exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)
}
