package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors for the command registry.
var (
	// ErrDuplicate is matched by every *DuplicateError.
	ErrDuplicate = errors.New("command already registered")

	// ErrEmptyName is returned when registering a command with an empty name.
	ErrEmptyName = errors.New("command name cannot be empty")

	// ErrNilCommand is returned when registering a nil command.
	ErrNilCommand = errors.New("command cannot be nil")
)

// DuplicateError reports a name collision on Register.
type DuplicateError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Command %s already registered", e.Name)
}

// Is reports whether target is ErrDuplicate.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
