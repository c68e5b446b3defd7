package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/appscope/appscope/internal/core/engine"
)

// newTestStore needs a Redis server (APPSCOPE_TEST_REDIS_ADDR, default
// localhost:6379). Skipped with -short or when unreachable.
func newTestStore(t *testing.T) *RedisWindowStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test")
	}

	addr := os.Getenv("APPSCOPE_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	s := NewRedisWindowStoreWithClient(client, "appscope:test:"+t.Name())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		t.Skip("redis not available:", err)
	}

	require.NoError(t, s.Reset(context.Background()))
	t.Cleanup(func() {
		_ = s.Reset(context.Background())
		_ = s.Close()
	})
	return s
}

func TestRedisWindowStoreAdmitsUpToLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 3; i++ {
		ok, _, err := s.TryAdmit(ctx, base.Add(time.Duration(i)*time.Millisecond), engine.Window, 3)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, oldest, err := s.TryAdmit(ctx, base.Add(10*time.Millisecond), engine.Window, 3)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, base, oldest)

	state, err := s.Snapshot(ctx, base.Add(10*time.Millisecond), engine.Window)
	require.NoError(t, err)
	require.Equal(t, 3, state.Count)
}

func TestRedisWindowStorePrunesExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	ok, _, err := s.TryAdmit(ctx, base, engine.Window, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _, err = s.TryAdmit(ctx, base.Add(engine.Window), engine.Window, 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisWindowStoreBacksRateLimiter(t *testing.T) {
	s := newTestStore(t)
	limiter := &engine.RateLimiter{Store: s}

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Admit(context.Background(), 2))
	}
	require.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}
