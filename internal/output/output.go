// Package output renders command results as tables, JSON or YAML.
package output

import (
	"fmt"
	"strings"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// Market pairs a country code with its storefront id.
type Market struct {
	Code    string `json:"code" yaml:"code"`
	StoreID string `json:"storeId" yaml:"storeId"`
}

// TokenReport describes a discovered bearer token.
type TokenReport struct {
	AppID     string `json:"appId" yaml:"appId"`
	Country   string `json:"country" yaml:"country"`
	Token     string `json:"token" yaml:"token"`
	Issuer    string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// RateReport is the rate limiter state shown by `ratelimit status`.
type RateReport struct {
	Backend string `json:"backend" yaml:"backend"`
	Limit   int    `json:"limit" yaml:"limit"`
	Count   int    `json:"count" yaml:"count"`
	Oldest  string `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest  string `json:"newest,omitempty" yaml:"newest,omitempty"`
}
