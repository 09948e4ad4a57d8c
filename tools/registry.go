// Package tools declares the assistant's callable tools and dispatches tool
// calls requested by the model to their handlers.
package tools

import (
	"context"
	"log/slog"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/markramrattan/navi/calendar"
	"github.com/markramrattan/navi/logging"
	"github.com/markramrattan/navi/model"
	"github.com/markramrattan/navi/reminders"
)

var toolDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "navi",
	Subsystem: "tools",
	Name:      "dispatches_total",
	Help:      "Tool dispatches by tool name and outcome.",
}, []string{"tool", "status"})

// Handler executes one tool call and returns the text fed back to the model.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Registry maps tool names to handlers. It is populated once at startup and
// read-only afterwards, so dispatch needs no locking.
type Registry struct {
	defs     []mcptypes.Tool
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewRegistry declares the four assistant tools, wiring their handlers to the
// calendar gateway and the in-memory reminder store.
func NewRegistry(gateway *calendar.Gateway, store *reminders.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{handlers: make(map[string]Handler), logger: logger}
	h := newHandlers(gateway, store)

	r.register(createReminderTool(), h.createReminder)
	r.register(listRemindersTool(), h.listReminders)
	r.register(todayScheduleTool(), h.todaySchedule)
	r.register(upcomingEventsTool(), h.upcomingEvents)
	return r
}

func (r *Registry) register(def mcptypes.Tool, h Handler) {
	r.defs = append(r.defs, def)
	r.handlers[def.Name] = h
}

// Tools returns the tool declarations sent to the model each round.
func (r *Registry) Tools() []mcptypes.Tool {
	return r.defs
}

// Dispatch runs the named tool and always produces a result the conversation
// can continue with. An unknown name (the model can hallucinate tools) yields
// an "Unknown tool" result, and handler errors become failure-text results;
// neither aborts the round.
func (r *Registry) Dispatch(ctx context.Context, call model.ToolCall) model.ToolResult {
	handler, ok := r.handlers[call.Name]
	if !ok {
		r.logger.Warn("unknown tool requested", logging.Tool(call.Name))
		toolDispatches.WithLabelValues(call.Name, logging.StatusError).Inc()
		return model.ToolResult{CallID: call.ID, Text: "Unknown tool: " + call.Name, IsErr: true}
	}

	text, err := handler(ctx, call.Arguments)
	if err != nil {
		r.logger.Warn("tool failed", logging.Tool(call.Name), logging.Err(err))
		toolDispatches.WithLabelValues(call.Name, logging.StatusError).Inc()
		return model.ToolResult{CallID: call.ID, Text: err.Error(), IsErr: true}
	}
	r.logger.Debug("tool dispatched", logging.Tool(call.Name), logging.Status(logging.StatusSuccess))
	toolDispatches.WithLabelValues(call.Name, logging.StatusSuccess).Inc()
	return model.ToolResult{CallID: call.ID, Text: text}
}
