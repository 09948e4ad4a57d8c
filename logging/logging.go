// Package logging provides slog attribute helpers so log entries use
// consistent keys across the codebase.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Common log attribute keys.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyProvider  = "provider"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyRound     = "round"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Setup installs a text slog handler on stderr at the given level and returns
// the root logger.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Provider returns a slog attribute for the LLM provider name.
func Provider(p string) slog.Attr {
	return slog.String(KeyProvider, p)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error. A nil err yields an empty group
// that slog omits, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeSecret masks a credential for logging, reporting only its length.
func SanitizeSecret(s string) string {
	if s == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[secret:%d chars]", len(s))
}
