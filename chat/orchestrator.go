// Package chat drives the conversation between the user, the model and the
// assistant's tools.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/markramrattan/navi/logging"
	"github.com/markramrattan/navi/model"
	"github.com/markramrattan/navi/tools"
)

// maxRounds caps model calls per user turn. A model that keeps requesting
// tools past the cap gets cut off with fallbackText, bounding worst-case
// latency and cost.
const maxRounds = 5

const fallbackText = "I had trouble completing that. Please try again."

const systemPrompt = `You are Navi, a friendly Personal Life Admin assistant. You help users manage everyday tasks like:
- Scheduling appointments and calendar events
- Setting reminders
- Organizing documents and important information

You have tools. Use them proactively instead of telling the user what to do by hand:
- create_reminder when the user wants to be reminded of something or to put something on their calendar.
- get_today_schedule when the user asks what is happening today.
- list_upcoming_events when the user asks about plans on another day or over a range of days.
- list_reminders when the user asks which reminders they have set this session.

Be helpful, concise, and conversational. After a tool runs, confirm in plain language what happened.`

// Orchestrator runs the tool-use loop for one user turn at a time. Each turn
// carries its own history and round counter; concurrent turns share nothing
// through the orchestrator itself.
type Orchestrator struct {
	provider model.Provider
	registry *tools.Registry
	logger   *slog.Logger
}

// NewOrchestrator wires the model provider to the tool registry.
func NewOrchestrator(provider model.Provider, registry *tools.Registry, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{provider: provider, registry: registry, logger: logger}
}

// ProcessTurn sends the caller-supplied history (which must start with a user
// turn) to the model, executes any requested tool calls, feeds the results
// back, and repeats until the model stops or the round cap is hit. The return
// value is the model's final text; a transport-level failure is the only
// error path.
func (o *Orchestrator) ProcessTurn(ctx context.Context, history []model.Message) (string, error) {
	msgs := make([]model.Message, 0, len(history)+1)
	msgs = append(msgs, model.Message{Role: model.RoleSystem, Content: systemPrompt})
	msgs = append(msgs, history...)

	for round := 1; round <= maxRounds; round++ {
		comp, err := o.provider.Complete(ctx, msgs, o.registry.Tools())
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}
		o.logger.Debug("model responded",
			slog.Int(logging.KeyRound, round),
			slog.String("stop_reason", string(comp.StopReason)),
			slog.Int("tool_calls", len(comp.ToolCalls)))

		if comp.StopReason != model.StopToolUse {
			// end_turn, max_tokens, or any other way the model chose to
			// stop: the first text segment is the answer, empty included.
			return comp.FirstText(), nil
		}

		// Replay the assistant turn with its tool requests, then execute
		// the calls one at a time in the order the model emitted them. A
		// later call's framing may depend on an earlier one's side effect.
		msgs = append(msgs, assistantTurn(comp))
		for _, call := range comp.ToolCalls {
			res := o.registry.Dispatch(ctx, call)
			msgs = append(msgs, model.Message{
				Role:       model.RoleTool,
				Content:    res.Text,
				ToolCallID: res.CallID,
				ToolError:  res.IsErr,
			})
		}
	}

	o.logger.Warn("round limit reached, returning fallback",
		slog.Int(logging.KeyRound, maxRounds))
	return fallbackText, nil
}

func assistantTurn(comp *model.Completion) model.Message {
	return model.Message{
		Role:      model.RoleAssistant,
		Content:   strings.Join(comp.Texts, "\n"),
		ToolCalls: comp.ToolCalls,
	}
}
