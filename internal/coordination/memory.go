package coordination

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store implementation backed by a mutex-guarded
// map. It honors the same atomicity and TTL semantics as the Redis-backed
// store and is used by tests and local development runs without Redis.
//
// Note that a MemoryStore is only shared within one process, so it cannot
// coordinate multiple server instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	// now is injectable for TTL expiry tests.
	now func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetIfAbsent implements Store.
func (s *MemoryStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}

	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return true, nil
}

// CompareAndDelete implements Store.
func (s *MemoryStore) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key)
	if !ok || entry.value != value {
		return false, nil
	}

	delete(s.entries, key)
	return true, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(key)
	delete(s.entries, key)
	return ok, nil
}

// Exists implements Store.
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(key)
	return ok, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

// live returns the entry for key if it exists and has not expired, removing
// it lazily when expired. Callers must hold s.mu.
func (s *MemoryStore) live(key string) (memoryEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}

	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}

	return entry, true
}
