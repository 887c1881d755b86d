package command

import "fmt"

// Stack is the numeric stack capability commands operate on.
type Stack interface {
	// Push places v on top. Suppressed pushes raise no change event.
	Push(v float64, suppress bool) error

	// Pop removes and returns the top value.
	Pop(suppress bool) (float64, error)

	// SwapTop exchanges the top two values.
	SwapTop() error

	// Elements returns up to n values, top first.
	Elements(n int) []float64

	// Size returns the number of values.
	Size() int
}

// Command is a reversible operation on a Stack.
type Command interface {
	// Execute checks preconditions and, if they hold, applies the command.
	// A *PreconditionError means the stack was not modified.
	Execute(s Stack) error

	// Undo reverses the most recent Execute.
	Undo(s Stack) error

	// Clone returns an independent copy carrying the same reversal state.
	// A command whose reversal state cannot be copied independently
	// documents that its clones start unexecuted.
	Clone() Command

	// Help returns a short description of the command.
	Help() string
}

// Releaser is implemented by commands that hold resources owned by
// someone else.
type Releaser interface {
	Release()
}

// Release releases c if it implements Releaser. It is safe to call with nil.
func Release(c Command) {
	if r, ok := c.(Releaser); ok {
		r.Release()
	}
}

// applyErr wraps a stack failure seen after preconditions passed.
func applyErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// requireDepth fails with msg unless s holds at least n values.
func requireDepth(s Stack, n int, msg string) error {
	if s.Size() < n {
		return Fail(msg)
	}
	return nil
}
