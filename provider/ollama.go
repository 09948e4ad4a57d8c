package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"github.com/markramrattan/navi/model"
	"github.com/markramrattan/navi/ollama"
)

// OllamaProvider wraps the ollama.Client to implement model.Provider.
//
// Ollama's API differs from the hosted providers in two ways that matter
// here: tool calls carry no IDs (we mint them), and there is no stop reason
// for tool use (a non-empty call list is the signal).
type OllamaProvider struct {
	client ollamaChatClient
	model  string
}

// ollamaChatClient is the slice of ollama.Client the provider needs.
type ollamaChatClient interface {
	Chat(ctx context.Context, messages []api.Message, tools []api.Tool, options map[string]any) (*api.ChatResponse, error)
	Ping(ctx context.Context) error
	SupportsToolCalling() bool
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: Ollama server URL (default: "http://localhost:11434")
//   - modelName: model to use (default: "llama3.1:latest")
func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaProvider{client: client, model: client.GetModel()}, nil
}

// Complete implements model.Provider.Complete with a non-streaming chat call.
func (p *OllamaProvider) Complete(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (*model.Completion, error) {
	var ollamaTools []api.Tool
	if len(tools) > 0 && p.client.SupportsToolCalling() {
		ollamaTools = ConvertToolsToOllama(tools)
	}

	options := map[string]any{
		"num_predict": maxOutputTokens,
		"temperature": samplingTemperature,
	}

	resp, err := p.client.Chat(ctx, convertToOllamaMessages(messages), ollamaTools, options)
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}
	if resp == nil {
		return nil, errors.New("invalid response from Ollama: missing message")
	}

	comp := &model.Completion{StopReason: mapOllamaDoneReason(resp.DoneReason)}
	if resp.Message.Content != "" {
		comp.Texts = append(comp.Texts, resp.Message.Content)
	}
	for _, call := range resp.Message.ToolCalls {
		comp.ToolCalls = append(comp.ToolCalls, model.ToolCall{
			// Ollama does not assign call IDs; mint one so results can be
			// correlated the same way as with other providers.
			ID:        uuid.NewString(),
			Name:      call.Function.Name,
			Arguments: map[string]any(call.Function.Arguments),
		})
	}
	if len(comp.ToolCalls) > 0 {
		comp.StopReason = model.StopToolUse
	}
	return comp, nil
}

// GetModel implements model.Provider.GetModel.
func (p *OllamaProvider) GetModel() string {
	return p.model
}

// Ping implements model.Provider.Ping.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}

func mapOllamaDoneReason(reason string) model.StopReason {
	switch reason {
	case "stop":
		return model.StopEndTurn
	case "length":
		return model.StopMaxTokens
	default:
		return model.StopOther
	}
}

// convertToOllamaMessages converts navi messages to Ollama API messages.
// Roles map one to one; tool-call IDs are dropped because Ollama correlates
// tool results by position.
func convertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		m := api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
		for _, call := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      call.Name,
					Arguments: api.ToolCallFunctionArguments(call.Arguments),
				},
			})
		}
		result = append(result, m)
	}
	return result
}
