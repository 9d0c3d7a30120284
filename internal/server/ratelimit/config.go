package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointRule is the rate limit for a route. Path supports prefix
// matching when it ends with "/".
type EndpointRule struct {
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []EndpointRule
}

// LoadConfig reads rate limiting configuration from the environment.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Rules:           DefaultRules(),
	}
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits. Endpoints that call
// the model are the expensive ones; reports are the most expensive of
// all and get the strictest budget.
func DefaultRules() []EndpointRule {
	return []EndpointRule{
		// Market-wide report generation
		{Path: "/api/reports/", Method: "POST", Limit: 6, Window: time.Hour, Burst: 2},

		// Per-opportunity model calls
		{Path: "/api/opportunities/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		// Image analysis and generation
		{Path: "/api/analyze-image", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/generate-image", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Chat turns
		{Path: "/api/chat/", Method: "POST", Limit: 120, Window: time.Hour, Burst: 20},
		{Path: "/api/chat/", Method: "DELETE", Limit: 120, Window: time.Hour, Burst: 20},

		// Feed reads fall through to the default limit
	}
}

// match finds the rule for a path and method, falling back to the
// default limit. The health check is never limited.
func (c *Config) match(path, method string) EndpointRule {
	if path == "/health" && method == "GET" {
		return EndpointRule{Path: path, Method: method, Limit: 0}
	}

	for _, rule := range c.Rules {
		if rule.Method == method && rule.Path == path {
			return rule
		}
	}
	for _, rule := range c.Rules {
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return EndpointRule{Path: path, Method: method, Limit: c.DefaultLimit, Window: c.DefaultWindow}
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
