// Package cli is the line-oriented front end: an interactive prompt
// backed by a line editor, and a batch mode reading commands from a file.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/peterh/liner"

	"github.com/dshills/stackcalc/internal/app"
	"github.com/dshills/stackcalc/internal/event"
	"github.com/dshills/stackcalc/internal/logging"
	"github.com/dshills/stackcalc/internal/stack"
	"github.com/dshills/stackcalc/internal/tokenizer"
)

// Default display settings.
const (
	DefaultPrecision = 12
	DefaultRows      = 4
	DefaultPrompt    = "> "
)

// Source names the CLI in the envelopes it raises.
const Source = "cli"

// CLI reads commands and writes messages and stack listings.
// It raises app.CommandEntered once per token, with the token wrapped in
// an event.Envelope.
type CLI struct {
	*event.Publisher

	in  io.Reader
	out io.Writer
	mu  sync.Mutex

	precision   int
	rows        int
	prompt      string
	historyFile string
	echo        bool
	logger      *logging.Logger
}

// Option configures a CLI.
type Option func(*CLI)

// WithPrecision sets the significant digits shown for stack values.
func WithPrecision(p int) Option {
	return func(c *CLI) {
		if p > 0 {
			c.precision = p
		}
	}
}

// WithRows sets how many stack elements are shown after a change.
func WithRows(n int) Option {
	return func(c *CLI) {
		if n > 0 {
			c.rows = n
		}
	}
}

// WithPrompt sets the interactive prompt.
func WithPrompt(p string) Option {
	return func(c *CLI) {
		c.prompt = p
	}
}

// WithHistoryFile sets where interactive line history is kept.
func WithHistoryFile(path string) Option {
	return func(c *CLI) {
		c.historyFile = path
	}
}

// WithEcho echoes each token before it is raised.
func WithEcho(echo bool) Option {
	return func(c *CLI) {
		c.echo = echo
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *CLI) {
		if l != nil {
			c.logger = l.WithComponent("cli")
		}
	}
}

// New creates a CLI reading batch input from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *CLI {
	c := &CLI{
		Publisher: event.NewPublisher(),
		in:        in,
		out:       out,
		precision: DefaultPrecision,
		rows:      DefaultRows,
		prompt:    DefaultPrompt,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Cannot fail on a fresh publisher
	_ = c.RegisterEvent(app.CommandEntered)
	return c
}

// PostMessage writes msg followed by a newline.
func (c *CLI) PostMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

// StackChanged writes the top of the stack, deepest shown element first.
func (c *CLI) StackChanged(v stack.View) {
	values := v.Elements(c.rows)
	size := v.Size()

	var b strings.Builder
	b.WriteString("\n")
	switch {
	case size == 0:
		b.WriteString("Stack currently empty.\n")
	case size == 1:
		fmt.Fprintf(&b, "Top element of stack (size = %d):\n", size)
	case size <= c.rows:
		fmt.Fprintf(&b, "Top %d elements of stack (size = %d):\n", size, size)
	default:
		fmt.Fprintf(&b, "Top %d elements of stack (size = %d):\n", c.rows, size)
	}

	for i := len(values) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%d:\t%.*g\n", i+1, c.precision, values[i])
	}

	c.PostMessage(b.String())
}

// Startup writes the banner.
func (c *CLI) Startup(version string) {
	c.PostMessage(fmt.Sprintf("stackcalc v. %s, an RPN calculator\n"+
		"type 'help' for a list of commands\n"+
		"'exit' to end program\n", version))
}

// Batch reads lines from the CLI's input until EOF or exit.
func (c *CLI) Batch() error {
	sc := bufio.NewScanner(c.in)
	sc.Buffer(make([]byte, 0, 4096), tokenizer.MaxTokenSize)
	for sc.Scan() {
		done, err := c.line(sc.Text())
		if err != nil || done {
			return err
		}
	}
	return sc.Err()
}

// Interactive prompts on the terminal until EOF, Ctrl-C or exit.
func (c *CLI) Interactive() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	c.readHistory(ln)
	defer c.writeHistory(ln)

	for {
		line, err := ln.Prompt(c.prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		done, err := c.line(line)
		if err != nil || done {
			return err
		}
	}
}

// line raises every token of one input line. It reports done when the
// line asks to exit.
func (c *CLI) line(text string) (bool, error) {
	for tok := range tokenizer.FromString(text).All() {
		if c.echo {
			c.PostMessage(tok)
		}
		if tok == "exit" || tok == "quit" {
			return true, nil
		}
		if err := c.Raise(app.CommandEntered, event.NewEnvelope(Source, tok)); err != nil {
			return false, fmt.Errorf("command %q: %w", tok, err)
		}
	}
	return false, nil
}

func (c *CLI) readHistory(ln *liner.State) {
	if c.historyFile == "" {
		return
	}
	f, err := os.Open(c.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := ln.ReadHistory(f); err != nil {
		c.logger.Debug("read history %s: %v", c.historyFile, err)
	}
}

func (c *CLI) writeHistory(ln *liner.State) {
	if c.historyFile == "" {
		return
	}
	f, err := os.Create(c.historyFile)
	if err != nil {
		c.logger.Warn("write history %s: %v", c.historyFile, err)
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		c.logger.Warn("write history %s: %v", c.historyFile, err)
	}
}
