// Package stack provides the numeric stack the calculator operates on.
//
// A Stack embeds an event.Publisher and raises two events: StackChanged
// whenever its contents change (unless the caller suppresses the
// notification), and StackError when an operation is attempted with too
// few elements.
package stack

import (
	"errors"
	"sync"

	"github.com/dshills/stackcalc/internal/event"
)

// Event names raised by a Stack.
const (
	StackChanged = "stackChanged"
	StackError   = "error"
)

// Sentinel errors for stack operations.
var (
	// ErrEmpty is returned when popping an empty stack.
	ErrEmpty = errors.New("attempting to pop empty stack")

	// ErrTooFewArguments is returned when swapping with fewer than two elements.
	ErrTooFewArguments = errors.New("need at least two stack elements to swap top")
)

// Condition identifies the kind of stack error.
type Condition int

const (
	// Empty means a pop was attempted on an empty stack.
	Empty Condition = iota
	// TooFewArguments means a swap was attempted with fewer than two elements.
	TooFewArguments
)

// ErrorData is the payload of the StackError event.
type ErrorData struct {
	Condition Condition
}

// Message returns the human-readable message for the condition.
func (d ErrorData) Message() string {
	switch d.Condition {
	case Empty:
		return "Attempting to pop empty stack"
	case TooFewArguments:
		return "Need at least two stack elements to swap top"
	default:
		return "Unknown stack error"
	}
}

// View is read access to a stack's contents.
type View interface {
	// Elements returns up to n values, top first.
	Elements(n int) []float64

	// Size returns the number of values.
	Size() int
}

// Stack is a last-in first-out stack of float64 values.
type Stack struct {
	*event.Publisher

	mu   sync.Mutex
	data []float64
}

// New creates an empty stack with its events registered.
func New() *Stack {
	s := &Stack{Publisher: event.NewPublisher()}
	// Cannot fail on a fresh publisher
	_ = s.RegisterEvents(StackChanged, StackError)
	return s
}

// Push places v on top of the stack. Unless suppress is set,
// StackChanged is raised and any observer error is returned.
func (s *Stack) Push(v float64, suppress bool) error {
	s.mu.Lock()
	s.data = append(s.data, v)
	s.mu.Unlock()

	if suppress {
		return nil
	}
	return s.Raise(StackChanged, nil)
}

// Pop removes and returns the top of the stack. Unless suppress is set,
// StackChanged is raised. Popping an empty stack raises StackError and
// returns ErrEmpty.
func (s *Stack) Pop(suppress bool) (float64, error) {
	s.mu.Lock()
	n := len(s.data)
	if n == 0 {
		s.mu.Unlock()
		return 0, s.fail(Empty, ErrEmpty)
	}
	v := s.data[n-1]
	s.data = s.data[:n-1]
	s.mu.Unlock()

	if suppress {
		return v, nil
	}
	return v, s.Raise(StackChanged, nil)
}

// SwapTop exchanges the top two elements and raises StackChanged.
// With fewer than two elements it raises StackError and returns
// ErrTooFewArguments.
func (s *Stack) SwapTop() error {
	s.mu.Lock()
	n := len(s.data)
	if n < 2 {
		s.mu.Unlock()
		return s.fail(TooFewArguments, ErrTooFewArguments)
	}
	s.data[n-1], s.data[n-2] = s.data[n-2], s.data[n-1]
	s.mu.Unlock()

	return s.Raise(StackChanged, nil)
}

// Elements returns up to n elements, top of stack first.
func (s *Stack) Elements(n int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.data) {
		n = len(s.data)
	}
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = s.data[len(s.data)-1-i]
	}
	return out
}

// Size returns the number of elements on the stack.
func (s *Stack) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Clear empties the stack and raises StackChanged.
func (s *Stack) Clear() error {
	s.mu.Lock()
	s.data = s.data[:0]
	s.mu.Unlock()

	return s.Raise(StackChanged, nil)
}

// fail raises StackError for cond and returns sentinel, joined with any
// observer failure.
func (s *Stack) fail(cond Condition, sentinel error) error {
	if err := s.Raise(StackError, ErrorData{Condition: cond}); err != nil {
		return errors.Join(sentinel, err)
	}
	return sentinel
}
