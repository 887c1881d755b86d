package command

import "errors"

// ErrPrecondition is matched by every *PreconditionError.
var ErrPrecondition = errors.New("command precondition failed")

// PreconditionError reports that a command refused to run. The stack is
// left untouched when it is returned.
type PreconditionError struct {
	// Message is the user-facing reason, e.g. "Division by zero".
	Message string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return e.Message
}

// Is reports whether target is ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// Fail returns a *PreconditionError with the given message.
func Fail(msg string) error {
	return &PreconditionError{Message: msg}
}

// Messages shared by the built-in commands.
const (
	msgNeedOne     = "Stack must have at least one element"
	msgNeedTwo     = "Stack must have at least two elements"
	msgSwapDepth   = "Stack must have 2 elements"
	msgSingleDepth = "Stack must have 1 element"
	msgDivByZero   = "Division by zero"
	msgInvalid     = "Invalid result"
	msgInfinite    = "Infinite result"
	msgInvalidArg  = "Invalid argument"
)
