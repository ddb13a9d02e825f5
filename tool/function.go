package tool

import (
	"context"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/internal/util"
)

// Func is the implementation signature wrapped by FunctionTool.
type Func func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// DialogMesh tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification (optional)
//   - Validates object-shaped action inputs against that schema before
//     execution
//   - Normalizes error handling so callers receive *ToolError with
//     consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is
// safe for concurrent use by multiple goroutines, satisfying the stateless
// contract of the Tool interface.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// Optional JSON schema describing accepted object arguments
	parameters map[string]any
	// User supplied implementation
	fn Func
}

// NewFunctionTool constructs a FunctionTool from a name, description and
// implementation.
//
// Example:
//
//	weather := NewFunctionTool(
//	  "weather_query",
//	  "Look up current weather for a city",
//	  func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (any, error) {
//	    args := input.Map()
//	    return lookupWeather(args["city"].(string))
//	  },
//	)
func NewFunctionTool(name, description string, fn Func) *FunctionTool {
	return &FunctionTool{name: name, description: description, fn: fn}
}

// NewFunctionToolWithSchema constructs a FunctionTool that validates
// object-shaped inputs against a minimal JSON-Schema-like map (type,
// properties, required) before invoking fn.
func NewFunctionToolWithSchema(name, description string, parameters map[string]any, fn Func) *FunctionTool {
	return &FunctionTool{name: name, description: description, parameters: parameters, fn: fn}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using
// reflection. It is a convenience for simple argument containers.
//
// Example:
//
//	type WeatherArgs struct {
//	  City string `json:"city" description:"City to look up"`
//	}
//	weather := NewFunctionToolFromStruct("weather_query", "Look up weather", WeatherArgs{}, fn)
func NewFunctionToolFromStruct(name, description string, structType any, fn Func) *FunctionTool {
	return NewFunctionToolWithSchema(name, description, util.CreateSchema(structType), fn)
}

// Name returns the unique tool name used in action dispatch.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Invoke validates the input against the schema (when one was supplied and
// the input is object-shaped) and delegates to the wrapped function.
func (t *FunctionTool) Invoke(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error) {
	if t.parameters != nil && input.IsJSON() {
		if err := util.ValidateParameters(input.Map(), t.parameters); err != nil {
			return nil, &ToolError{Tool: t.name, Message: err.Error(), Code: "VALIDATION_ERROR"}
		}
	}

	result, err := t.fn(ctx, input, user, history)
	if err != nil {
		if te, ok := err.(*ToolError); ok {
			return nil, te
		}
		return nil, &ToolError{Tool: t.name, Message: err.Error(), Code: "EXECUTION_ERROR"}
	}
	return result, nil
}
