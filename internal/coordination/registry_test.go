package coordination

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskRegistryRequiresStore(t *testing.T) {
	t.Parallel()
	_, err := NewTaskRegistry(nil)
	assert.Error(t, err)
}

func TestTaskRegistryLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	registry, err := NewTaskRegistry(NewMemoryStore())
	require.NoError(t, err)

	active, err := registry.HasActive(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, active)

	record, err := registry.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, record, "no record before Start")

	ok, err := registry.Start(ctx, "user-1", "task-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	active, err = registry.HasActive(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, active)

	record, err = registry.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "task-1", record.TaskID)
	assert.Equal(t, TaskStatusProcessing, record.Status)
	assert.WithinDuration(t, time.Now().UTC(), record.StartedAt, 5*time.Second)

	assert.True(t, registry.Complete(ctx, "user-1"))

	active, err = registry.HasActive(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, active)

	assert.False(t, registry.Complete(ctx, "user-1"), "second Complete finds nothing to clear")
}

func TestTaskRegistrySecondStartRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	registry, err := NewTaskRegistry(NewMemoryStore())
	require.NoError(t, err)

	ok, err := registry.Start(ctx, "user-1", "task-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = registry.Start(ctx, "user-1", "task-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// The losing Start must not have replaced the record.
	record, err := registry.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "task-1", record.TaskID)

	// Other subjects are unaffected.
	ok, err = registry.Start(ctx, "user-2", "task-3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTaskRegistryConcurrentStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	registry, err := NewTaskRegistry(NewMemoryStore())
	require.NoError(t, err)

	const attempts = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, serr := registry.Start(ctx, "user-1", "task", time.Minute)
			assert.NoError(t, serr)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one concurrent Start may win")
}

func TestTaskRegistryRecordExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()
	registry, err := NewTaskRegistry(store)
	require.NoError(t, err)

	current := time.Now()
	store.now = func() time.Time { return current }

	ok, err := registry.Start(ctx, "user-1", "task-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	current = current.Add(2 * time.Minute)

	active, err := registry.HasActive(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, active, "expired record means no active task")

	ok, err = registry.Start(ctx, "user-1", "task-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "subject is admittable again after expiry")
}

func TestTaskRegistryFailurePolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storeErr := errors.New("connection refused")
	registry, err := NewTaskRegistry(&failingStore{err: storeErr})
	require.NoError(t, err)

	// HasActive and Start fail closed.
	_, err = registry.HasActive(ctx, "user-1")
	assert.ErrorIs(t, err, storeErr)

	_, err = registry.Start(ctx, "user-1", "task-1", time.Minute)
	assert.ErrorIs(t, err, storeErr)

	// Complete fails soft.
	assert.False(t, registry.Complete(ctx, "user-1"))
}
