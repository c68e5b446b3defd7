package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/appscope/appscope/internal/core"
	"github.com/appscope/appscope/internal/core/engine"
)

// DefaultWindowKey is the sorted set holding admitted request timestamps.
const DefaultWindowKey = "appscope:ratelimit:window"

// RedisConfig configures a Redis-backed rate window.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisWindowStore shares one rate window between processes. Each admitted
// request is a sorted set member scored by its timestamp in milliseconds.
type RedisWindowStore struct {
	client *redis.Client
	key    string
}

var _ engine.ConcurrentWindowStore = (*RedisWindowStore)(nil)

// KEYS[1] window key; ARGV now_ms, window_ms, limit, member.
// Returns {1, now} when admitted, {0, oldest} otherwise.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, now}
`)

// NewRedisWindowStore connects to Redis using cfg.
func NewRedisWindowStore(cfg RedisConfig) *RedisWindowStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisWindowStoreWithClient(client, cfg.Key)
}

// NewRedisWindowStoreWithClient wraps an existing client.
func NewRedisWindowStoreWithClient(client *redis.Client, key string) *RedisWindowStore {
	if key == "" {
		key = DefaultWindowKey
	}
	return &RedisWindowStore{client: client, key: key}
}

// TryAdmit implements engine.WindowStore.
func (s *RedisWindowStore) TryAdmit(ctx context.Context, now time.Time, window time.Duration, limit int) (bool, time.Time, error) {
	if s == nil || s.client == nil {
		return false, time.Time{}, errors.New("redis window store is not configured")
	}

	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.New().String()

	values, err := admitScript.Run(ctx, s.client, []string{s.key}, nowMs, window.Milliseconds(), limit, member).Int64Slice()
	if err != nil {
		return false, time.Time{}, fmt.Errorf("redis window admit: %w", err)
	}
	if len(values) != 2 {
		return false, time.Time{}, fmt.Errorf("redis window admit: unexpected reply %v", values)
	}

	return values[0] == 1, time.UnixMilli(values[1]).UTC(), nil
}

// ConcurrentAdmit implements engine.ConcurrentWindowStore. The script runs
// atomically and the sorted set orders members by score.
func (s *RedisWindowStore) ConcurrentAdmit() bool { return true }

// Snapshot implements engine.WindowStore.
func (s *RedisWindowStore) Snapshot(ctx context.Context, now time.Time, window time.Duration) (*core.RateWindowState, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis window store is not configured")
	}

	lower := "(" + strconv.FormatInt(now.Add(-window).UnixMilli(), 10)
	entries, err := s.client.ZRangeByScoreWithScores(ctx, s.key, &redis.ZRangeBy{
		Min: lower,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis window snapshot: %w", err)
	}

	state := &core.RateWindowState{Count: len(entries)}
	if len(entries) > 0 {
		oldest := time.UnixMilli(int64(entries[0].Score)).UTC()
		newest := time.UnixMilli(int64(entries[len(entries)-1].Score)).UTC()
		state.Oldest = &oldest
		state.Newest = &newest
	}
	return state, nil
}

// Reset clears the shared window.
func (s *RedisWindowStore) Reset(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Ping checks the Redis connection.
func (s *RedisWindowStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisWindowStore) Close() error {
	return s.client.Close()
}
