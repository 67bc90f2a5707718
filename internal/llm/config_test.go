package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModel(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModelFallback(t *testing.T) {
	config := &Config{
		Models: map[ModelTier]string{
			TierStandard: "gemini-2.5-flash",
		},
	}

	// Unknown tier falls back to standard.
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierAdvanced))

	config = &Config{
		Models: map[ModelTier]string{
			TierLite: "gemini-2.5-flash-lite",
		},
	}
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierAdvanced))

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	custom := config.WithModel(TierAdvanced, "gemini-3.0-pro")

	assert.Equal(t, "gemini-3.0-pro", custom.GetModel(TierAdvanced))
	// Original untouched.
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	// Retry policy carried over.
	assert.Equal(t, config.Retry, custom.Retry)
}
