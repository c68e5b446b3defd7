// Package config provides configuration management for appscope. Defaults
// are registered on a viper instance, overlaid by the user config file from
// the XDG config directory and APPSCOPE_* environment variables, then decoded
// into a typed Config.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// AppName names the config directory and the binary.
	AppName = "appscope"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "APPSCOPE"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.lookup_url", "https://itunes.apple.com/lookup")
	v.SetDefault("catalog.storefront_origin", "https://apps.apple.com")
	v.SetDefault("catalog.api_url", "https://amp-api-edge.apps.apple.com")
	v.SetDefault("catalog.country", "")
	v.SetDefault("catalog.language", "")
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("catalog.user_agent", "")

	v.SetDefault("rate_limit.requests_per_second", 0)
	v.SetDefault("rate_limit.backend", BackendMemory)
	v.SetDefault("rate_limit.redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.redis.password", "")
	v.SetDefault("rate_limit.redis.db", 0)
	v.SetDefault("rate_limit.redis.key", "appscope:ratelimit:window")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.inbound_rps", 0)
	v.SetDefault("server.inbound_burst", 10)

	v.SetDefault("logging.level", "info")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("health.enabled", true)

	v.SetDefault("workers", 4)
}

// Load decodes v into a Config, validates it and makes it the current
// configuration. Safe to call again on reload.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects settings that cannot produce a working client.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.RateLimit.Backend {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(cfg.RateLimit.Redis.Addr) == "" {
			return fmt.Errorf("rate_limit.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported rate_limit.backend %q (want memory or redis)", cfg.RateLimit.Backend)
	}

	if cfg.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must not be negative")
	}
	if cfg.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must not be negative")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Server.InboundRPS < 0 {
		return fmt.Errorf("server.inbound_rps must not be negative")
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.RateLimit.Backend = strings.ToLower(strings.TrimSpace(cfg.RateLimit.Backend))
	if cfg.RateLimit.Backend == "" {
		cfg.RateLimit.Backend = BackendMemory
	}
	cfg.Catalog.Country = strings.TrimSpace(cfg.Catalog.Country)
	cfg.Catalog.Language = strings.TrimSpace(cfg.Catalog.Language)
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Server.InboundBurst <= 0 {
		cfg.Server.InboundBurst = 1
	}
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigDir is the XDG config directory for appscope.
func DefaultConfigDir() string {
	return gfconfig.GetAppConfigDir(AppName)
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := DefaultConfigDir()
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}
