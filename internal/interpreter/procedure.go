package interpreter

import (
	"os"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/tokenizer"
)

// StoredProcedure runs the tokens of a file through a nested interpreter
// that shares the registry and stack of the interpreter that created it.
//
// The first Execute runs every token. Undo then undoes as many nested
// commands as the run left applied, and later Executes redo that many.
type StoredProcedure struct {
	parent   *Interpreter
	filename string

	nested   *Interpreter
	tokens   *tokenizer.Tokenizer
	executed int
}

func newStoredProcedure(parent *Interpreter, filename string) *StoredProcedure {
	return &StoredProcedure{parent: parent, filename: filename}
}

// Execute runs the procedure the first time and redoes it afterwards.
func (p *StoredProcedure) Execute(s command.Stack) error {
	if p.nested != nil {
		for i := 0; i < p.executed; i++ {
			p.nested.CommandEntered("redo")
		}
		return nil
	}

	if p.parent.depth >= MaxProcedureDepth {
		return command.Fail(msgTooDeep)
	}

	f, err := os.Open(p.filename)
	if err != nil {
		p.parent.logger.Debug("open procedure %s: %v", p.filename, err)
		return command.Fail(msgNoProcedure)
	}
	defer f.Close()

	tokens, err := tokenizer.New(f)
	if err != nil {
		p.parent.logger.Debug("read procedure %s: %v", p.filename, err)
		return command.Fail(msgNoProcedure)
	}
	p.tokens = tokens

	p.nested = New(p.parent.factory, s, p.parent.poster,
		WithStrategy(p.parent.strategy),
		WithLogger(p.parent.logger),
		withDepth(p.parent.depth+1),
	)
	for tok := range tokens.All() {
		p.nested.CommandEntered(tok)
	}
	p.executed = p.nested.UndoSize()
	return nil
}

// Undo undoes every command the procedure applied.
func (p *StoredProcedure) Undo(command.Stack) error {
	if p.nested == nil {
		return nil
	}
	for i := 0; i < p.executed; i++ {
		p.nested.CommandEntered("undo")
	}
	return nil
}

// Clone returns a procedure for the same file that has not run yet. The
// applied commands live in p's nested history, which a copy cannot share
// independently, so the clone carries no reversal state: its Undo is a
// no-op until it has executed.
func (p *StoredProcedure) Clone() command.Command {
	return newStoredProcedure(p.parent, p.filename)
}

// Help returns the help text.
func (p *StoredProcedure) Help() string {
	return "Executes a stored procedure from disk"
}

// Executed returns how many commands the first run left applied.
func (p *StoredProcedure) Executed() int {
	return p.executed
}

// Release releases the nested interpreter's history.
func (p *StoredProcedure) Release() {
	if p.nested != nil {
		p.nested.Close()
	}
}
