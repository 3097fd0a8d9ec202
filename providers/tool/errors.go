package tool

import "errors"

// Tool failures recovered by the action step. Each maps to an
// ai.ToolResult error kind in the tool message answering the call.
var (
	// ErrToolNotFound is returned by Registry.Lookup for an unregistered name.
	ErrToolNotFound = errors.New("unknown tool")

	// ErrInvalidArguments reports arguments that do not satisfy the tool's
	// parameter schema or cannot be decoded into its input type.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrArithmetic reports a failure of the arithmetic itself, such as a
	// division by zero.
	ErrArithmetic = errors.New("arithmetic error")
)

// ErrDuplicateTool is returned by NewRegistry when two tools share a name.
var ErrDuplicateTool = errors.New("duplicate tool name")
