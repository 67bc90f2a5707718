package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves a request path and method to its endpoint config.
// Exact path matches win; configs whose path ends in "/" act as prefixes,
// so "/runs/" covers "/runs/{id}" and everything beneath it. Returns nil
// when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check is never metered.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") {
			if strings.HasPrefix(path, config.Path) {
				return config
			}
		}
	}

	return nil
}
