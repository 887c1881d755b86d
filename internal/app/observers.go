package app

import (
	"github.com/dshills/stackcalc/internal/event"
	"github.com/dshills/stackcalc/internal/stack"
)

// CommandEntered is the front end event carrying one entered token.
const CommandEntered = "commandEntered"

// Observer names attached by a session.
const (
	CommandIssued = "CommandIssued"
	StackUpdated  = "StackUpdated"
	StackFailed   = "StackFailed"
)

// newCommandIssued forwards entered tokens to the session queue. The
// payload must be a string.
func newCommandIssued(s *Session) event.Observer {
	return event.NewObserver(CommandIssued, func(data any) error {
		text, err := event.PayloadAs[string](data)
		if err != nil {
			return err
		}
		return s.Submit(text)
	})
}

// newStackUpdated tells the front end that the stack changed.
func newStackUpdated(ui UI, v stack.View) event.Observer {
	return event.NewObserver(StackUpdated, func(any) error {
		ui.StackChanged(v)
		return nil
	})
}

// newStackFailed logs stack errors. Commands check their preconditions
// first, so one reaching the stack is a defect.
func newStackFailed(s *Session) event.Observer {
	return event.NewObserver(StackFailed, func(data any) error {
		ed, err := event.PayloadAs[stack.ErrorData](data)
		if err != nil {
			return err
		}
		s.logger.Warn("stack error: %s", ed.Message())
		return nil
	})
}
