package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}

func clearAll(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "GEMINI_API_KEY", "MARKET_AREA", "DATABASE_URL", "REDIS_URL", "SESSION_TTL"} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearAll(t)
	setEnv(t, "GEMINI_API_KEY", "test-key")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultMarketArea, cfg.MarketArea)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnv_MissingAPIKeyFails(t *testing.T) {
	clearAll(t)

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestFromEnv_Overrides(t *testing.T) {
	clearAll(t)
	setEnv(t, "GEMINI_API_KEY", "test-key")
	setEnv(t, "PORT", "9090")
	setEnv(t, "MARKET_AREA", "Duluth Metro")
	setEnv(t, "DATABASE_URL", "postgres://localhost/localpulse")
	setEnv(t, "REDIS_URL", "redis://localhost:6379")
	setEnv(t, "SESSION_TTL", "2h")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "Duluth Metro", cfg.MarketArea)
	assert.Equal(t, "postgres://localhost/localpulse", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestFromEnv_BadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "eighty"},
		{"port out of range", "PORT", "70000"},
		{"bad session ttl", "SESSION_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearAll(t)
			setEnv(t, "GEMINI_API_KEY", "test-key")
			setEnv(t, tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidate_NegativeTTL(t *testing.T) {
	cfg := &Config{
		Port:         8080,
		GeminiAPIKey: "key",
		MarketArea:   DefaultMarketArea,
		SessionTTL:   -time.Minute,
	}
	assert.Error(t, cfg.Validate())
}
