// Package llm provides centralized LLM configuration and client abstractions.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: reflection checks, short classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: structured JSON output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: full plan generation and repair
	TierAdvanced ModelTier = "advanced"
)

// Default sampling temperatures. JSON calls run cooler to reduce format drift.
const (
	DefaultJSONTemperature = 0.3
	DefaultTextTemperature = 0.7
)

// Config holds the model configuration for the application
type Config struct {
	Models map[ModelTier]string
	Retry  RetryConfig
}

// RetryConfig bounds the transient-error retry policy.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// JitterFraction is the symmetric jitter applied to each delay (0.2 = ±20%).
	JitterFraction float64
}

// DefaultRetryConfig returns the standard bounded backoff policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       8 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Retry: DefaultRetryConfig(),
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Models: make(map[ModelTier]string, len(c.Models)),
		Retry:  c.Retry,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
