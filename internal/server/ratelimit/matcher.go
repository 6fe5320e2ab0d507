package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when the default limit applies. Path matching supports prefix
// matching (e.g., "/cv/export/" matches "/cv/export/docx").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Probes are never limited
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return &EndpointConfig{PerMinute: 0}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
