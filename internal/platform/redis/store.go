package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/topspin/topspin-api/internal/config"
	"github.com/topspin/topspin-api/internal/coordination"
)

// compareAndDeleteScript deletes a key only when its value matches the given
// argument. Running it as a server-side script makes the check and the delete
// a single atomic step, closing the race where the key is read, found
// matching, and deleted after another client re-created it.
var compareAndDeleteScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end
`)

// Store implements coordination.Store on a shared Redis instance. SetIfAbsent
// maps to SET NX EX and CompareAndDelete to a Lua script, which gives the
// atomicity the lock manager and task registry depend on.
type Store struct {
	client *goredis.Client
}

// Compile-time check that Store satisfies the coordination interface.
var _ coordination.Store = (*Store)(nil)

// NewStore connects to Redis using the given configuration and verifies the
// connection with a ping before returning the store.
func NewStore(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Store{client: client}, nil
}

// SetIfAbsent implements coordination.Store.
func (s *Store) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX %s: %w", key, err)
	}
	return ok, nil
}

// CompareAndDelete implements coordination.Store.
func (s *Store) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	deleted, err := compareAndDeleteScript.Run(ctx, s.client, []string{key}, value).Int()
	if err != nil {
		return false, fmt.Errorf("redis compare-and-delete %s: %w", key, err)
	}
	return deleted == 1, nil
}

// Delete implements coordination.Store.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return deleted == 1, nil
}

// Exists implements coordination.Store.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis EXISTS %s: %w", key, err)
	}
	return n == 1, nil
}

// Get implements coordination.Store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", coordination.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis GET %s: %w", key, err)
	}
	return value, nil
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
