package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/appscope/appscope/internal/config"
	"github.com/appscope/appscope/internal/core/catalog"
	"github.com/appscope/appscope/internal/core/engine"
	"github.com/appscope/appscope/internal/core/store"
	"github.com/appscope/appscope/internal/observability"
)

// runtime bundles the catalog client with the limiter backing it.
type runtime struct {
	cfg     *config.Config
	client  *catalog.Client
	limiter *engine.RateLimiter
	redis   *store.RedisWindowStore
}

func (r *runtime) Close() error {
	if r == nil || r.redis == nil {
		return nil
	}
	return r.redis.Close()
}

// limit is the configured outbound ceiling.
func (r *runtime) limit() int {
	return r.cfg.RateLimit.RequestsPerSecond
}

func (r *runtime) requestOptions() catalog.RequestOptions {
	return catalog.RequestOptions{Limit: r.limit()}
}

func loadedConfig() (*config.Config, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, errors.New("config not loaded")
	}
	return cfg, nil
}

// newLimiter builds the limiter for the configured backend. The Redis store
// is returned so callers can ping, reset and close it.
func newLimiter(cfg *config.Config) (*engine.RateLimiter, *store.RedisWindowStore, error) {
	switch cfg.RateLimit.Backend {
	case "", config.BackendMemory:
		return engine.NewRateLimiter(), nil, nil
	case config.BackendRedis:
		redisStore := store.NewRedisWindowStore(store.RedisConfig{
			Addr:     cfg.RateLimit.Redis.Addr,
			Password: cfg.RateLimit.Redis.Password,
			DB:       cfg.RateLimit.Redis.DB,
			Key:      cfg.RateLimit.Redis.Key,
		})
		return &engine.RateLimiter{Store: redisStore}, redisStore, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", cfg.RateLimit.Backend)
	}
}

// openRuntime wires the catalog client from the loaded configuration.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadedConfig()
	if err != nil {
		return nil, err
	}

	limiter, redisStore, err := newLimiter(cfg)
	if err != nil {
		return nil, err
	}
	if redisStore != nil {
		if err := redisStore.Ping(ctx); err != nil {
			_ = redisStore.Close()
			return nil, fmt.Errorf("redis rate window at %s: %w", cfg.RateLimit.Redis.Addr, err)
		}
	}

	opts := []catalog.Option{catalog.WithLimiter(limiter)}
	logger := observability.Active()
	if logger != nil {
		opts = append(opts, catalog.WithLogger(logger))
	}

	client := catalog.New(catalog.Config{
		LookupURL:        cfg.Catalog.LookupURL,
		StorefrontOrigin: cfg.Catalog.StorefrontOrigin,
		APIURL:           cfg.Catalog.APIURL,
		Country:          cfg.Catalog.Country,
		Language:         cfg.Catalog.Language,
		Timeout:          cfg.Catalog.Timeout,
		UserAgent:        cfg.Catalog.UserAgent,
	}, opts...)

	if logger != nil {
		logger.Debug("Catalog client ready",
			zap.String("backend", cfg.RateLimit.Backend),
			zap.Int("limit", cfg.RateLimit.RequestsPerSecond))
	}

	return &runtime{cfg: cfg, client: client, limiter: limiter, redis: redisStore}, nil
}
