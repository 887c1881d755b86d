// Package app assembles a calculator session: plugins, the command
// registry, the stack and the interpreter, wired to a front end.
package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrSessionClosed indicates the session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrAlreadyRunning indicates Run was called while the queue is running.
	ErrAlreadyRunning = errors.New("session already running")
)

// InitError represents a session initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
