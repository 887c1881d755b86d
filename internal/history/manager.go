package history

import (
	"sync"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/logging"
)

// Manager executes commands and tracks them for undo and redo.
type Manager struct {
	mu       sync.Mutex
	strategy Strategy
	timeline timeline
	logger   *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for history diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l.WithComponent("history")
		}
	}
}

// New creates a manager using the given strategy.
func New(strategy Strategy, opts ...Option) *Manager {
	m := &Manager{
		strategy: strategy,
		timeline: newTimeline(strategy),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Strategy returns the strategy the manager was created with.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// Execute runs c against s. On success c moves onto the undo side and the
// redo side is released. On failure nothing is recorded and c stays with
// the caller.
func (m *Manager) Execute(c command.Command, s command.Stack) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := c.Execute(s); err != nil {
		return err
	}

	discarded := m.timeline.push(c)
	if len(discarded) > 0 {
		m.logger.Debug("releasing %d undone commands", len(discarded))
	}
	for _, d := range discarded {
		command.Release(d)
	}
	return nil
}

// Undo reverses the most recently executed command. It does nothing when
// the undo side is empty. A command whose Undo fails stays on the undo side.
func (m *Manager) Undo(s command.Stack) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.timeline.lastUndo()
	if c == nil {
		return nil
	}
	if err := c.Undo(s); err != nil {
		return err
	}
	m.timeline.undone()
	return nil
}

// Redo re-executes the most recently undone command. It does nothing when
// the redo side is empty. A command whose Execute fails stays on the redo
// side.
func (m *Manager) Redo(s command.Stack) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.timeline.lastRedo()
	if c == nil {
		return nil
	}
	if err := c.Execute(s); err != nil {
		return err
	}
	m.timeline.redone()
	return nil
}

// UndoSize returns the number of commands that can be undone.
func (m *Manager) UndoSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeline.undoLen()
}

// RedoSize returns the number of commands that can be redone.
func (m *Manager) RedoSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeline.redoLen()
}

// Clear releases every command on both sides.
func (m *Manager) Clear() {
	m.mu.Lock()
	all := m.timeline.drain()
	m.mu.Unlock()

	for _, c := range all {
		command.Release(c)
	}
}
