package history

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown history strategy")

// Strategy selects how the timeline is stored.
type Strategy int

const (
	// StrategyStack uses an undo stack and a redo stack.
	StrategyStack Strategy = iota
	// StrategyList uses a doubly linked list with a cursor.
	StrategyList
	// StrategyVector uses a growable slice with a cursor.
	StrategyVector
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyStack:
		return "stack"
	case StrategyList:
		return "list"
	case StrategyVector:
		return "vector"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name. The empty string selects
// StrategyStack.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "stack":
		return StrategyStack, nil
	case "list":
		return StrategyList, nil
	case "vector":
		return StrategyVector, nil
	default:
		return StrategyStack, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
