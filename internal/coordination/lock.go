package coordination

import (
	"context"
	"fmt"
	"time"

	"github.com/topspin/topspin-api/internal/platform/logger"
)

// LockManager provides advisory mutual exclusion through TTL-bounded leases
// in the coordination store. Acquisition never blocks or queues: the first
// caller to win the create-if-absent race holds the lease, everyone else
// fails immediately.
//
// Every lease carries an owner token so a stale holder cannot release a
// lease that was re-acquired by someone else after TTL expiry.
type LockManager struct {
	store Store
}

// NewLockManager creates a LockManager on top of the given store.
func NewLockManager(store Store) (*LockManager, error) {
	if store == nil {
		return nil, fmt.Errorf("coordination store cannot be nil")
	}
	return &LockManager{store: store}, nil
}

// Acquire attempts to take the lease for key, marking it with token and a
// TTL after which the store expires it if never released. It returns true
// iff this call created the lease.
//
// Store failures are fail-closed: the lock is reported as not acquired and
// the error is returned so the caller can distinguish contention from an
// unavailable store.
func (m *LockManager) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ok, err := m.store.SetIfAbsent(ctx, key, token, ttl)
	if err != nil {
		logger.FromContext(ctx).Error("failed to acquire lock",
			"key", key,
			"error", err)
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Release deletes the lease for key only if it is still owned by token,
// as a single atomic compare-and-delete. Returns true iff the lease was
// deleted.
//
// Store failures are fail-soft: the error is logged and false is returned
// so teardown sequences can continue. A leaked lease is bounded by its TTL.
func (m *LockManager) Release(ctx context.Context, key, token string) bool {
	ok, err := m.store.CompareAndDelete(ctx, key, token)
	if err != nil {
		logger.FromContext(ctx).Error("failed to release lock",
			"key", key,
			"error", err)
		return false
	}
	return ok
}
