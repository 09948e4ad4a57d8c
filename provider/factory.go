package provider

import (
	"fmt"

	"github.com/markramrattan/navi/model"
)

// NewProvider creates a provider based on configuration. This is the single
// factory for all provider types; callers never construct providers directly.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a user-facing provider id from configuration
// to a factory ProviderType. Unknown ids pass through as-is and the factory
// rejects them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "anthropic":
		return ProviderTypeAnthropic
	case "openai":
		return ProviderTypeOpenAI
	case "ollama":
		return ProviderTypeOllama
	default:
		return ProviderType(id)
	}
}
