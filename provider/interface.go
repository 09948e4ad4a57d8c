// Package provider implements the model.Provider interface for the LLM
// services navi can talk to.
//
// Navi supports multiple providers (Anthropic, OpenAI, Ollama) through the
// common model.Provider interface, so the orchestrator and tool layers stay
// provider-agnostic. The provider layer owns every conversion between navi's
// types and provider-specific types: messages, tool declarations, tool calls
// and stop reasons.
//
// The interface itself lives in the model package to avoid import cycles:
// implementations here import model, and model exposes the contract without
// importing this package.
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeOllama    ProviderType = "ollama"
)

// Sampling configuration, fixed for every provider: answers are short
// conversational turns, so a modest output budget keeps cost bounded.
const (
	maxOutputTokens     = 1024
	samplingTemperature = 0.7
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // for OpenAI/Anthropic (unused for Ollama)
}
