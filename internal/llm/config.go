// Package llm provides the language-model client used by the car advisor.
// Callers pick a model tier; the configured provider maps it to a concrete model.
package llm

import "time"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short conversational replies
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: questionnaires, comparisons
	TierStandard ModelTier = "standard"
	// TierAdvanced is for multi-car reasoning and personalized picks
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string

	// Temperature applies to free-form text (chat replies).
	Temperature float32
	// JSONTemperature applies to structured responses, which need to be stable.
	JSONTemperature float32
	// MaxOutputTokens caps text responses. Zero leaves the provider default.
	MaxOutputTokens int32
	// Timeout bounds a single call. Zero means the caller's context decides.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     0.7,
		JSONTemperature: 0.1,
		MaxOutputTokens: 500,
		Timeout:         30 * time.Second,
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

// WithModel returns a copy of the Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
