package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultGeminiConfig(t *testing.T) {
	cfg := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.NotEmpty(t, cfg.Models[TierLite])
	assert.NotEmpty(t, cfg.Models[TierStandard])
	assert.NotEmpty(t, cfg.Models[TierAdvanced])
	assert.NotEmpty(t, cfg.ImageModel)
}

func TestConfig_GetModel(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierStandard: "standard-model",
		},
	}

	assert.Equal(t, "standard-model", cfg.GetModel(TierStandard))
	// Unknown tier falls back to standard
	assert.Equal(t, "standard-model", cfg.GetModel(TierAdvanced))
}

func TestConfig_GetModel_FallbackToLite(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "lite-model",
		},
	}

	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))
}

func TestConfig_GetModel_NoModels(t *testing.T) {
	cfg := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}

	assert.Empty(t, cfg.GetModel(TierStandard))
}

func TestConfig_WithModel(t *testing.T) {
	cfg := DefaultGeminiConfig()
	custom := cfg.WithModel(TierAdvanced, "custom-pro")

	assert.Equal(t, "custom-pro", custom.GetModel(TierAdvanced))
	assert.Equal(t, cfg.ImageModel, custom.ImageModel)
	// Original untouched
	assert.NotEqual(t, "custom-pro", cfg.GetModel(TierAdvanced))
}
