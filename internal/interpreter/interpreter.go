// Package interpreter turns user tokens into calculator commands.
//
// Numbers become EnterNumber commands, the words undo, redo and help are
// handled directly, "proc:<file>" runs a stored procedure, and anything
// else is looked up in the command registry. Every command goes through
// the interpreter's history manager. Failures are never returned to the
// caller; they are posted as messages.
package interpreter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/history"
	"github.com/dshills/stackcalc/internal/logging"
)

// procPrefix introduces a stored procedure token.
const procPrefix = "proc:"

var numberPattern = regexp.MustCompile(`^((\+|-)?[0-9]*)(\.([0-9]+)?)?((e|E)(\+|-)?[0-9]+)?$`)

// Factory supplies commands by name.
type Factory interface {
	Allocate(name string) command.Command
	Names() []string
	HelpMessage(name string) string
}

// Poster receives user-facing messages.
type Poster interface {
	PostMessage(msg string)
}

// Interpreter executes entered tokens against a stack.
type Interpreter struct {
	factory  Factory
	stack    command.Stack
	poster   Poster
	history  *history.Manager
	strategy history.Strategy
	logger   *logging.Logger
	depth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStrategy selects the history strategy. The default is StrategyStack.
func WithStrategy(s history.Strategy) Option {
	return func(in *Interpreter) {
		in.strategy = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l.WithComponent("interpreter")
		}
	}
}

// withDepth marks an interpreter nested inside stored procedures.
func withDepth(depth int) Option {
	return func(in *Interpreter) {
		in.depth = depth
	}
}

// New creates an interpreter over the given registry, stack and message sink.
func New(factory Factory, s command.Stack, poster Poster, opts ...Option) *Interpreter {
	in := &Interpreter{
		factory:  factory,
		stack:    s,
		poster:   poster,
		strategy: history.StrategyStack,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.history = history.New(in.strategy, history.WithLogger(in.logger))
	return in
}

// CommandEntered interprets one token.
func (in *Interpreter) CommandEntered(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if v, ok := ParseNumber(text); ok {
		in.handle(command.NewEnterNumber(v))
		return
	}

	switch {
	case text == "undo":
		in.report(in.history.Undo(in.stack))
	case text == "redo":
		in.report(in.history.Redo(in.stack))
	case text == "help":
		in.poster.PostMessage(in.Help())
	case strings.HasPrefix(text, procPrefix) && len(text) > len(procPrefix):
		in.handle(newStoredProcedure(in, text[len(procPrefix):]))
	default:
		c := in.factory.Allocate(text)
		if c == nil {
			in.poster.PostMessage(fmt.Sprintf(msgUnknownCommand, text))
			return
		}
		in.handle(c)
	}
}

// Help returns the help listing: undo and redo, then every registered
// command in name order.
func (in *Interpreter) Help() string {
	var b strings.Builder
	b.WriteString("undo: undo last operation\n")
	b.WriteString("redo: redo last operation\n")
	for _, name := range in.factory.Names() {
		b.WriteString(in.factory.HelpMessage(name))
		b.WriteString("\n")
	}
	return b.String()
}

// UndoSize returns the number of commands that can be undone.
func (in *Interpreter) UndoSize() int {
	return in.history.UndoSize()
}

// RedoSize returns the number of commands that can be redone.
func (in *Interpreter) RedoSize() int {
	return in.history.RedoSize()
}

// Close releases every command held in history.
func (in *Interpreter) Close() {
	in.history.Clear()
}

// handle executes c through history. A command that fails is released
// since history did not take it.
func (in *Interpreter) handle(c command.Command) {
	if err := in.history.Execute(c, in.stack); err != nil {
		command.Release(c)
		in.report(err)
	}
}

// report posts err, if any.
func (in *Interpreter) report(err error) {
	if err == nil {
		return
	}

	var pe *command.PreconditionError
	if errors.As(err, &pe) {
		in.poster.PostMessage(pe.Message)
		return
	}
	in.logger.Debug("command failed: %v", err)
	in.poster.PostMessage(err.Error())
}

// ParseNumber reports whether s is a numeric literal and returns its value.
// A bare sign is not a number.
func ParseNumber(s string) (float64, bool) {
	if s == "" || s == "+" || s == "-" || !numberPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
