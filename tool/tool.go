// Package tool implements the capability subsystem that lets the
// orchestration loop invoke structured external services (tabular lookups,
// HTTP APIs, computations) by name, with consistent error handling and
// self-describing metadata for prompt rendering.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/dialogmesh/core"
)

// Tool defines the capability contract for callable external services.
//
// Implementations must be stateless across invocations: a single instance
// may be invoked concurrently by multiple sessions. Anything a tool needs
// per call arrives through its arguments; anything it must remember belongs
// in the external stores, not on the tool value.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended) and
//     descriptions; both are rendered into the system prompt
//   - Treat the input as read-only (ActionInput enforces this by value
//     semantics)
//   - Handle errors gracefully; a returned error becomes an observation fed
//     back to the model, never a turn failure
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is provided to the model to help it choose actions.
	Description() string

	// Invoke executes the tool. It receives the parsed action input, the
	// opaque per-user context and the conversation history rendered without
	// the system prompt. The call is synchronous and may block on network
	// I/O; it should honor ctx cancellation where practical.
	Invoke(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error)
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string      `json:"tool"`              // Name of the tool that failed
	Message string      `json:"message"`           // Error message
	Code    string      `json:"code"`              // Error code for categorization
	Details interface{} `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
