package lua

import (
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/stackcalc/internal/command"
)

// Command is a calculator command implemented by Lua functions.
type Command struct {
	state *State
	live  *atomic.Int64

	arity int
	help  string
	fn    *lua.LFunction
	check *lua.LFunction

	top         float64
	next        float64
	deallocated bool
}

// Execute runs the check function, computes the result in Lua, and only
// then replaces the operands with it. A Lua error leaves the stack as it was.
func (c *Command) Execute(s command.Stack) error {
	if s.Size() < c.arity {
		if c.arity == 1 {
			return command.Fail("Stack must have at least one element")
		}
		return command.Fail("Stack must have at least two elements")
	}

	if c.check != nil {
		view, err := c.stackView(s)
		if err != nil {
			return command.Fail(err.Error())
		}
		ret, err := c.state.CallValue(c.check, view)
		if err != nil {
			return command.Fail(fmt.Sprintf("Plugin check failed: %v", err))
		}
		if len(ret) > 0 {
			if msg, ok := ret[0].(lua.LString); ok && msg != "" {
				return command.Fail(string(msg))
			}
		}
	}

	operands := s.Elements(c.arity)
	args := make([]lua.LValue, c.arity)
	for i, v := range operands {
		// Lua sees (next, top) for binary commands
		args[c.arity-1-i] = lua.LNumber(v)
	}

	ret, err := c.state.CallValue(c.fn, args...)
	if err != nil {
		return command.Fail(fmt.Sprintf("Plugin error: %v", err))
	}
	if len(ret) == 0 {
		return command.Fail("Plugin returned no result")
	}
	result, ok := ret[0].(lua.LNumber)
	if !ok {
		return command.Fail(fmt.Sprintf("Plugin returned %s, not a number", ret[0].Type()))
	}

	top, err := s.Pop(true)
	if err != nil {
		return fmt.Errorf("lua command execute: %w", err)
	}
	c.top = top
	if c.arity == 2 {
		next, err := s.Pop(true)
		if err != nil {
			return fmt.Errorf("lua command execute: %w", err)
		}
		c.next = next
	}
	if err := s.Push(float64(result), false); err != nil {
		return fmt.Errorf("lua command execute: %w", err)
	}
	return nil
}

// Undo pops the result and restores the operands.
func (c *Command) Undo(s command.Stack) error {
	if _, err := s.Pop(true); err != nil {
		return fmt.Errorf("lua command undo: %w", err)
	}
	if c.arity == 2 {
		if err := s.Push(c.next, true); err != nil {
			return fmt.Errorf("lua command undo: %w", err)
		}
	}
	if err := s.Push(c.top, false); err != nil {
		return fmt.Errorf("lua command undo: %w", err)
	}
	return nil
}

// Clone returns a copy bound to the same Lua state.
func (c *Command) Clone() command.Command {
	cp := *c
	cp.deallocated = false
	c.live.Add(1)
	return &cp
}

// Help returns the help text.
func (c *Command) Help() string {
	return c.help
}

// Deallocate returns the command to the loader that allocated it.
func (c *Command) Deallocate() {
	if c.deallocated {
		return
	}
	c.deallocated = true
	c.live.Add(-1)
}

// stackView builds the read-only stack table passed to check functions.
func (c *Command) stackView(s command.Stack) (*lua.LTable, error) {
	return c.state.NewTable(map[string]lua.LGFunction{
		"size": func(L *lua.LState) int {
			L.Push(lua.LNumber(s.Size()))
			return 1
		},
		"peek": func(L *lua.LState) int {
			i := L.CheckInt(1)
			if i < 1 {
				L.Push(lua.LNil)
				return 1
			}
			v := s.Elements(i)
			if len(v) < i {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(v[i-1]))
			return 1
		},
	})
}
