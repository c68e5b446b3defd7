// Package catalog fetches app metadata and privacy disclosures from the App
// Store catalog.
//
// Every outbound call goes through an Executor, which admits it through the
// client's RateLimiter. Clients built with separate limiters never share a
// ceiling.
package catalog

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/appscope/appscope/internal/core/engine"
)

const (
	DefaultLookupURL        = "https://itunes.apple.com/lookup"
	DefaultStorefrontOrigin = "https://apps.apple.com"
	DefaultAPIURL           = "https://amp-api-edge.apps.apple.com"
	DefaultLookupCountry    = "us"
	DefaultPrivacyCountry   = "US"

	// MaxLookupBatchSize is the most ids the lookup endpoint accepts per request.
	MaxLookupBatchSize = 200
)

var errMissingHost = errors.New("missing scheme or host")

// Config holds the endpoints and defaults a Client uses.
type Config struct {
	LookupURL        string
	StorefrontOrigin string
	APIURL           string
	Country          string
	Language         string
	Timeout          time.Duration
	UserAgent        string
}

// Client is the entry point for lookups, token discovery and privacy fetches.
type Client struct {
	exec   *Executor
	config Config
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.exec.Client = client
		}
	}
}

// WithLimiter injects the rate limiter shared by every request of the client.
func WithLimiter(limiter *engine.RateLimiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.exec.Limiter = limiter
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.exec.Logger = logger
		}
	}
}

// New builds a Client. Zero config values fall back to the public endpoints.
func New(cfg Config, opts ...Option) *Client {
	cfg.LookupURL = fallback(cfg.LookupURL, DefaultLookupURL)
	cfg.StorefrontOrigin = strings.TrimRight(fallback(cfg.StorefrontOrigin, DefaultStorefrontOrigin), "/")
	cfg.APIURL = strings.TrimRight(fallback(cfg.APIURL, DefaultAPIURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		config: cfg,
		exec: &Executor{
			Client:    &http.Client{Timeout: cfg.Timeout},
			Limiter:   engine.NewRateLimiter(),
			UserAgent: cfg.UserAgent,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Executor exposes the underlying request executor.
func (c *Client) Executor() *Executor {
	return c.exec
}

// Limiter returns the limiter shared by the client's requests.
func (c *Client) Limiter() *engine.RateLimiter {
	return c.exec.Limiter
}

// Config returns the effective client configuration.
func (c *Client) Config() Config {
	return c.config
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
