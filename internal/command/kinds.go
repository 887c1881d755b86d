package command

// UnaryFunc computes the result of a unary command.
type UnaryFunc func(x float64) float64

// UnaryCheck validates the operand of a unary command. A non-empty
// return is the precondition failure message.
type UnaryCheck func(x float64) string

// BinaryFunc computes f(next, top).
type BinaryFunc func(next, top float64) float64

// BinaryCheck validates the operands of a binary command.
type BinaryCheck func(next, top float64) string

// Unary replaces the top of the stack with f(top).
type Unary struct {
	help  string
	fn    UnaryFunc
	check UnaryCheck

	top float64
}

// NewUnary creates a unary command. check may be nil.
func NewUnary(help string, fn UnaryFunc, check UnaryCheck) *Unary {
	return &Unary{help: help, fn: fn, check: check}
}

// Execute pops x and pushes f(x).
func (c *Unary) Execute(s Stack) error {
	if err := requireDepth(s, 1, msgNeedOne); err != nil {
		return err
	}
	if c.check != nil {
		if msg := c.check(s.Elements(1)[0]); msg != "" {
			return Fail(msg)
		}
	}

	top, err := s.Pop(true)
	if err != nil {
		return applyErr("unary execute", err)
	}
	c.top = top
	if err := s.Push(c.fn(top), false); err != nil {
		return applyErr("unary execute", err)
	}
	return nil
}

// Undo pops the result and restores the original operand.
func (c *Unary) Undo(s Stack) error {
	if _, err := s.Pop(true); err != nil {
		return applyErr("unary undo", err)
	}
	if err := s.Push(c.top, false); err != nil {
		return applyErr("unary undo", err)
	}
	return nil
}

// Clone returns a copy of c.
func (c *Unary) Clone() Command {
	cp := *c
	return &cp
}

// Help returns the help text.
func (c *Unary) Help() string {
	return c.help
}

// Binary replaces the top two values with f(next, top).
type Binary struct {
	help  string
	fn    BinaryFunc
	check BinaryCheck

	top  float64
	next float64
}

// NewBinary creates a binary command. check may be nil.
func NewBinary(help string, fn BinaryFunc, check BinaryCheck) *Binary {
	return &Binary{help: help, fn: fn, check: check}
}

// Execute pops top then next and pushes f(next, top).
func (c *Binary) Execute(s Stack) error {
	if err := requireDepth(s, 2, msgNeedTwo); err != nil {
		return err
	}
	if c.check != nil {
		v := s.Elements(2)
		if msg := c.check(v[1], v[0]); msg != "" {
			return Fail(msg)
		}
	}

	top, err := s.Pop(true)
	if err != nil {
		return applyErr("binary execute", err)
	}
	next, err := s.Pop(true)
	if err != nil {
		return applyErr("binary execute", err)
	}
	c.top, c.next = top, next

	if err := s.Push(c.fn(next, top), false); err != nil {
		return applyErr("binary execute", err)
	}
	return nil
}

// Undo pops the result and restores next then top.
func (c *Binary) Undo(s Stack) error {
	if _, err := s.Pop(true); err != nil {
		return applyErr("binary undo", err)
	}
	if err := s.Push(c.next, true); err != nil {
		return applyErr("binary undo", err)
	}
	if err := s.Push(c.top, false); err != nil {
		return applyErr("binary undo", err)
	}
	return nil
}

// Clone returns a copy of c.
func (c *Binary) Clone() Command {
	cp := *c
	return &cp
}

// Help returns the help text.
func (c *Binary) Help() string {
	return c.help
}
