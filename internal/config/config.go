package config

import "time"

// Config is the complete application configuration. Values come from, in
// increasing precedence: defaults, the config file, APPSCOPE_* environment
// variables and command flags.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`

	// Workers bounds concurrent lookup chunks.
	Workers int `mapstructure:"workers"`
}

// CatalogConfig holds the upstream endpoints and request defaults.
type CatalogConfig struct {
	LookupURL        string        `mapstructure:"lookup_url"`
	StorefrontOrigin string        `mapstructure:"storefront_origin"`
	APIURL           string        `mapstructure:"api_url"`
	Country          string        `mapstructure:"country"`
	Language         string        `mapstructure:"language"`
	Timeout          time.Duration `mapstructure:"timeout"`
	UserAgent        string        `mapstructure:"user_agent"`
}

// RateLimitConfig configures the outbound limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the ceiling per trailing second; 0 disables it.
	RequestsPerSecond int `mapstructure:"requests_per_second"`

	// Backend is "memory" or "redis".
	Backend string `mapstructure:"backend"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig locates the shared rate window.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// InboundRPS throttles API callers; 0 disables the throttle.
	InboundRPS   float64 `mapstructure:"inbound_rps"`
	InboundBurst int     `mapstructure:"inbound_burst"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
