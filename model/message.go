package model

import "time"

// Roles used in conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message represents a single turn in a conversation.
//
// Assistant turns that requested tool execution carry the requested calls in
// ToolCalls so providers can replay them on the next round. Tool-result turns
// use RoleTool and carry the id of the call they answer in ToolCallID.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // populated on assistant turns that requested tools
	ToolCallID string     // populated on tool-result turns
	ToolError  bool       // true when the tool result reports a failure
	Timestamp  time.Time
}

// ToolCall is a provider-agnostic tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is the outcome of dispatching a single tool call.
type ToolResult struct {
	CallID string
	Text   string
	IsErr  bool
}
