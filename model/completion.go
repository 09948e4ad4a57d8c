package model

// StopReason is the provider-agnostic reason a completion ended.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
	StopToolUse   StopReason = "tool_use"
	StopOther     StopReason = "other"
)

// Completion is one model response: ordered text segments plus any tool calls,
// with the stop reason that ended the turn.
type Completion struct {
	StopReason StopReason
	Texts      []string
	ToolCalls  []ToolCall
}

// FirstText returns the first text segment of the completion, or the empty
// string when the response carried no text at all. A tool-only response that
// stops unexpectedly is legitimate, so absence of text is not an error.
func (c *Completion) FirstText() string {
	if len(c.Texts) == 0 {
		return ""
	}
	return c.Texts[0]
}
