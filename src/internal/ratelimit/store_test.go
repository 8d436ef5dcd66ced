package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, window time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, window), mr
}

func TestRedisStoreCountsWithinWindow(t *testing.T) {
	store, mr := newRedisStore(t, time.Second)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		hit, err := store.Increment(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, i, hit.Count)
	}
	assert.Equal(t, time.Second, mr.TTL("rl:ip:1.2.3.4"))

	mr.FastForward(time.Second)

	hit, err := store.Increment(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hit.Count)
}

func TestRedisStoreKeysAreIndependent(t *testing.T) {
	store, _ := newRedisStore(t, time.Second)
	ctx := context.Background()

	_, err := store.Increment(ctx, "ip:a")
	require.NoError(t, err)
	hit, err := store.Increment(ctx, "ip:b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), hit.Count)
}

func TestRedisStoreRepairsMissingTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Second)

	require.NoError(t, mr.Set("rl:ip:x", "5"))

	hit, err := store.Increment(context.Background(), "ip:x")
	require.NoError(t, err)
	assert.Equal(t, int64(6), hit.Count)
	assert.Equal(t, time.Second, mr.TTL("rl:ip:x"))
}

func TestRedisStoreReportsUnavailableServer(t *testing.T) {
	store, mr := newRedisStore(t, time.Second)
	mr.Close()

	_, err := store.Increment(context.Background(), "ip:x")
	assert.ErrorIs(t, err, models.ErrCounterStore)
}

func TestRedisStoreConcurrentIncrementsAreAtomic(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx, "ip:c")
		}()
	}
	wg.Wait()

	hit, err := store.Increment(ctx, "ip:c")
	require.NoError(t, err)
	assert.Equal(t, int64(51), hit.Count)
}

func TestMemoryStoreWindow(t *testing.T) {
	store := NewMemoryStore(100, time.Second)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := store.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Count)
	assert.Equal(t, now.Add(time.Second), first.ResetAt)

	second, err := store.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Count)
	assert.Equal(t, first.ResetAt, second.ResetAt)

	now = now.Add(time.Second)
	third, err := store.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), third.Count)
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore(100, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Increment(ctx, "k")
		}()
	}
	wg.Wait()

	hit, err := store.Increment(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(101), hit.Count)
}
