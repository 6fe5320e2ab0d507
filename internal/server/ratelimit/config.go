package ratelimit

import (
	"time"

	"github.com/jonathan/cv-maker/internal/config"
)

// EndpointConfig is the rate limit of one endpoint.
type EndpointConfig struct {
	Path      string // Path pattern; a trailing "/" matches by prefix
	Method    string // HTTP method
	PerMinute int    // Sustained requests per minute; 0 means unlimited
	Burst     int    // Bucket capacity (defaults to PerMinute if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled          bool
	DefaultPerMinute int
	DefaultBurst     int
	CleanupInterval  time.Duration
	IdleTTL          time.Duration
	EndpointConfigs  []EndpointConfig
}

// FromConfig builds the limiter configuration from the server settings.
func FromConfig(cfg config.RateLimitConfig) *Config {
	return &Config{
		Enabled:          cfg.Enabled,
		DefaultPerMinute: cfg.RequestsPerMinute,
		DefaultBurst:     cfg.Burst,
		CleanupInterval:  5 * time.Minute,
		IdleTTL:          time.Hour,
		EndpointConfigs:  DefaultEndpointConfigs(cfg.ExportPerMinute),
	}
}

// DefaultEndpointConfigs returns the endpoint tiers. Printing a PDF starts
// a browser, so it gets the strictest limit.
func DefaultEndpointConfigs(exportPerMinute int) []EndpointConfig {
	if exportPerMinute <= 0 {
		exportPerMinute = 6
	}
	burst := max(exportPerMinute/3, 1)
	return []EndpointConfig{
		// Tier 1: headless browser
		{Path: "/cv/export/pdf", Method: "GET", PerMinute: exportPerMinute, Burst: burst},
		{Path: "/cv/overflow", Method: "GET", PerMinute: exportPerMinute, Burst: burst},

		// Tier 2: other exports
		{Path: "/cv/export/", Method: "GET", PerMinute: exportPerMinute * 5, Burst: burst * 5},

		// Everything else uses the default limit; health and metrics are unlimited
	}
}
