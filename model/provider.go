package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Provider abstracts LLM provider implementations (Anthropic, OpenAI, Ollama)
// using provider-agnostic types from navi's model layer.
//
// This interface is defined in the model package (not provider package) to
// avoid import cycles: provider implementations can import model, and model
// can expose the Provider interface without importing the provider package.
type Provider interface {
	// Complete sends the accumulated conversation plus tool declarations and
	// returns the model's full response. Completion is blocking; navi does
	// not stream tokens.
	Complete(ctx context.Context, messages []Message, tools []mcptypes.Tool) (*Completion, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
