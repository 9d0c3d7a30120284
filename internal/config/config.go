// Package config provides configuration loading and validation for the
// server and CLI. Values come from the environment; a .env file, if
// present, is loaded before the commands read it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultPort       = 8080
	DefaultMarketArea = "Minneapolis-St. Paul Metro"
	DefaultSessionTTL = 30 * time.Minute
)

// Config holds everything the server needs to start. DatabaseURL and
// RedisURL are optional: without them the embedded opportunity seed
// and the in-memory session store are used.
type Config struct {
	Port         int           // HTTP listen port (PORT)
	GeminiAPIKey string        // Gemini API key (GEMINI_API_KEY)
	MarketArea   string        // Geographic market the assistant serves (MARKET_AREA)
	DatabaseURL  string        // PostgreSQL connection URL (DATABASE_URL)
	RedisURL     string        // Redis address for shared chat sessions (REDIS_URL)
	SessionTTL   time.Duration // Idle chat session lifetime (SESSION_TTL)
}

// FromEnv reads configuration from the environment and validates it.
// The Gemini key is the one thing the server cannot run without, so a
// missing key fails here rather than on the first request.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         DefaultPort,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		MarketArea:   DefaultMarketArea,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		SessionTTL:   DefaultSessionTTL,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("MARKET_AREA"); v != "" {
		cfg.MarketArea = v
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config error: SESSION_TTL must be a duration like 30m, got %q", v)
		}
		cfg.SessionTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("config error: SESSION_TTL must be non-negative")
	}
	if c.MarketArea == "" {
		return fmt.Errorf("config error: MARKET_AREA must not be empty")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
