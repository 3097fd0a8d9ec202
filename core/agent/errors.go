package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHistory is returned by Decide when the history does not start
	// with exactly one system message.
	ErrInvalidHistory = errors.New("history must start with exactly one system message")

	// ErrInvalidInput is returned by Run when no initial message is given or
	// one of them is not a user message.
	ErrInvalidInput = errors.New("initial messages must be one or more user messages")

	// ErrNilResponse is the cause of a BackendError raised when the backend
	// returns neither a response nor an error.
	ErrNilResponse = errors.New("backend returned no response")

	// ErrMalformedToolCall is the cause of a BackendError raised when a tool
	// call has no ID or name, or repeats an ID of its message.
	ErrMalformedToolCall = errors.New("malformed tool call")
)

// BackendError reports a failed decision step: the backend could not be
// reached, rejected the request, or returned a response that could not be
// decoded. It is the only error that aborts a run.
type BackendError struct {
	Cause error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %v", e.Cause)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}
