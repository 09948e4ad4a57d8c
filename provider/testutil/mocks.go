// Package testutil provides mock implementations for provider testing.
package testutil

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"github.com/markramrattan/navi/model"
)

// MockProvider implements model.Provider for testing.
type MockProvider struct {
	// Configurable responses
	CompleteFunc func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (*model.Completion, error)
	PingFunc     func(ctx context.Context) error

	// State
	currentModel string
	CallCount    int
}

// NewMockProvider creates a mock provider with default implementations.
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.CompleteFunc = mock.defaultComplete
	mock.PingFunc = mock.defaultPing
	return mock
}

// NewScriptedProvider creates a mock that returns the given completions in
// order, one per Complete call. Calls past the script repeat the last entry.
func NewScriptedProvider(modelName string, script ...*model.Completion) *MockProvider {
	mock := NewMockProvider(modelName)
	i := 0
	mock.CompleteFunc = func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (*model.Completion, error) {
		comp := script[i]
		if i < len(script)-1 {
			i++
		}
		return comp, nil
	}
	return mock
}

func (m *MockProvider) defaultComplete(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (*model.Completion, error) {
	return &model.Completion{
		StopReason: model.StopEndTurn,
		Texts:      []string{"Mock response"},
	}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

// Complete implements model.Provider.Complete.
func (m *MockProvider) Complete(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (*model.Completion, error) {
	m.CallCount++
	return m.CompleteFunc(ctx, messages, tools)
}

// GetModel implements model.Provider.GetModel.
func (m *MockProvider) GetModel() string {
	return m.currentModel
}

// Ping implements model.Provider.Ping.
func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
