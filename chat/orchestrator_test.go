package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"github.com/markramrattan/navi/calendar"
	"github.com/markramrattan/navi/model"
	"github.com/markramrattan/navi/provider/testutil"
	"github.com/markramrattan/navi/reminders"
	"github.com/markramrattan/navi/tools"
)

func testRegistry() (*tools.Registry, *reminders.Store) {
	gateway := calendar.NewGateway(calendar.Config{}, nil, nil)
	store := reminders.NewStore()
	return tools.NewRegistry(gateway, store, nil), store
}

func userTurn(text string) []model.Message {
	return []model.Message{{Role: model.RoleUser, Content: text}}
}

func TestProcessTurnImmediateAnswer(t *testing.T) {
	registry, _ := testRegistry()
	p := testutil.NewScriptedProvider("test-model", &model.Completion{
		StopReason: model.StopEndTurn,
		Texts:      []string{"Hello! How can I help?"},
	})
	o := NewOrchestrator(p, registry, nil)

	reply, err := o.ProcessTurn(context.Background(), userTurn("hi"))
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if reply != "Hello! How can I help?" {
		t.Errorf("reply = %q", reply)
	}
	if p.CallCount != 1 {
		t.Errorf("expected a single model call, got %d", p.CallCount)
	}
}

func TestProcessTurnPrependsSystemPrompt(t *testing.T) {
	registry, _ := testRegistry()
	var seen []model.Message
	p := testutil.NewMockProvider("test-model")
	p.CompleteFunc = func(ctx context.Context, messages []model.Message, defs []mcptypes.Tool) (*model.Completion, error) {
		seen = messages
		return &model.Completion{StopReason: model.StopEndTurn, Texts: []string{"ok"}}, nil
	}
	o := NewOrchestrator(p, registry, nil)

	if _, err := o.ProcessTurn(context.Background(), userTurn("hi")); err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected system + user message, got %d", len(seen))
	}
	if seen[0].Role != model.RoleSystem || !strings.Contains(seen[0].Content, "Navi") {
		t.Errorf("first message should be the persona prompt, got role %q", seen[0].Role)
	}
	if seen[1].Role != model.RoleUser {
		t.Errorf("history should follow the system prompt, got role %q", seen[1].Role)
	}
}

func TestProcessTurnToolRound(t *testing.T) {
	registry, store := testRegistry()
	p := testutil.NewScriptedProvider("test-model",
		&model.Completion{
			StopReason: model.StopToolUse,
			Texts:      []string{"Let me set that up."},
			ToolCalls: []model.ToolCall{{
				ID:   "call-1",
				Name: "create_reminder",
				Arguments: map[string]any{
					"title": "Water plants",
					"date":  "tomorrow",
				},
			}},
		},
		&model.Completion{
			StopReason: model.StopEndTurn,
			Texts:      []string{"Done, I set a reminder for tomorrow."},
		},
	)
	o := NewOrchestrator(p, registry, nil)

	reply, err := o.ProcessTurn(context.Background(), userTurn("remind me to water the plants tomorrow"))
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if reply != "Done, I set a reminder for tomorrow." {
		t.Errorf("reply = %q", reply)
	}
	if p.CallCount != 2 {
		t.Errorf("expected 2 model calls, got %d", p.CallCount)
	}
	if store.Len() != 1 {
		t.Errorf("tool call should have stored a reminder, got %d", store.Len())
	}
}

func TestProcessTurnToolResultFedBack(t *testing.T) {
	registry, _ := testRegistry()

	var secondCallMsgs []model.Message
	calls := 0
	p := testutil.NewMockProvider("test-model")
	p.CompleteFunc = func(ctx context.Context, messages []model.Message, defs []mcptypes.Tool) (*model.Completion, error) {
		calls++
		if calls == 1 {
			return &model.Completion{
				StopReason: model.StopToolUse,
				ToolCalls:  []model.ToolCall{{ID: "call-9", Name: "list_reminders"}},
			}, nil
		}
		secondCallMsgs = messages
		return &model.Completion{StopReason: model.StopEndTurn, Texts: []string{"done"}}, nil
	}
	o := NewOrchestrator(p, registry, nil)

	if _, err := o.ProcessTurn(context.Background(), userTurn("what reminders do I have?")); err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}

	last := secondCallMsgs[len(secondCallMsgs)-1]
	if last.Role != model.RoleTool {
		t.Fatalf("last replayed message should be the tool result, got role %q", last.Role)
	}
	if last.ToolCallID != "call-9" {
		t.Errorf("tool result should carry the call id, got %q", last.ToolCallID)
	}
	if !strings.Contains(last.Content, "no reminders") {
		t.Errorf("tool result content = %q", last.Content)
	}

	assistant := secondCallMsgs[len(secondCallMsgs)-2]
	if assistant.Role != model.RoleAssistant || len(assistant.ToolCalls) != 1 {
		t.Errorf("assistant turn with the tool request should precede the result")
	}
}

func TestProcessTurnRoundLimit(t *testing.T) {
	registry, _ := testRegistry()
	p := testutil.NewMockProvider("test-model")
	p.CompleteFunc = func(ctx context.Context, messages []model.Message, defs []mcptypes.Tool) (*model.Completion, error) {
		// Always asks for another tool; the orchestrator must cut it off.
		return &model.Completion{
			StopReason: model.StopToolUse,
			ToolCalls:  []model.ToolCall{{ID: "loop", Name: "list_reminders"}},
		}, nil
	}
	o := NewOrchestrator(p, registry, nil)

	reply, err := o.ProcessTurn(context.Background(), userTurn("loop forever"))
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if reply != fallbackText {
		t.Errorf("reply = %q, want the fallback text", reply)
	}
	if p.CallCount != maxRounds {
		t.Errorf("expected %d model calls, got %d", maxRounds, p.CallCount)
	}
}

func TestProcessTurnProviderError(t *testing.T) {
	registry, _ := testRegistry()
	p := testutil.NewMockProvider("test-model")
	p.CompleteFunc = func(ctx context.Context, messages []model.Message, defs []mcptypes.Tool) (*model.Completion, error) {
		return nil, errors.New("connection refused")
	}
	o := NewOrchestrator(p, registry, nil)

	_, err := o.ProcessTurn(context.Background(), userTurn("hi"))
	if err == nil || !strings.Contains(err.Error(), "model call failed") {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestProcessTurnMaxTokensReturnsText(t *testing.T) {
	registry, _ := testRegistry()
	p := testutil.NewScriptedProvider("test-model", &model.Completion{
		StopReason: model.StopMaxTokens,
		Texts:      []string{"I was cut off mid"},
	})
	o := NewOrchestrator(p, registry, nil)

	reply, err := o.ProcessTurn(context.Background(), userTurn("write a novel"))
	if err != nil {
		t.Fatalf("ProcessTurn failed: %v", err)
	}
	if reply != "I was cut off mid" {
		t.Errorf("truncated answers are still answers, got %q", reply)
	}
}
