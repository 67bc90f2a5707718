package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the per-route limit. Path matches by prefix when no
// exact route matches; Burst defaults to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads the limiter settings from RATE_LIMIT_* environment
// variables, falling back to defaults.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs holds the per-route limits. Plan generation runs
// the LLM pipeline, so it is limited far harder than account writes; reads
// ride the default limit and the health check is unmetered in the matcher.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/plans", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/plans/stream", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2},

		{Path: "/auth/register", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/auth/login", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/users/", Method: http.MethodPut, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/runs/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// parseIPList splits a comma-separated address list into a lookup set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
