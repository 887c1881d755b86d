package command

import (
	"fmt"
	"math"
)

// eps is the closeness used for the tangent singularity test.
const eps = 1e-12

// EnterNumber pushes a number. The interpreter creates one per literal.
type EnterNumber struct {
	number float64
}

// NewEnterNumber creates a command that pushes v.
func NewEnterNumber(v float64) *EnterNumber {
	return &EnterNumber{number: v}
}

// Execute pushes the number.
func (c *EnterNumber) Execute(s Stack) error {
	if err := s.Push(c.number, false); err != nil {
		return applyErr("enter number", err)
	}
	return nil
}

// Undo pops the number.
func (c *EnterNumber) Undo(s Stack) error {
	if _, err := s.Pop(false); err != nil {
		return applyErr("enter number undo", err)
	}
	return nil
}

// Clone returns a copy of c.
func (c *EnterNumber) Clone() Command {
	cp := *c
	return &cp
}

// Help returns the help text.
func (c *EnterNumber) Help() string {
	return "Adds a number to the stack"
}

// Swap exchanges the top two values.
type Swap struct{}

// Execute swaps the top two values.
func (c *Swap) Execute(s Stack) error {
	if err := requireDepth(s, 2, msgSwapDepth); err != nil {
		return err
	}
	if err := s.SwapTop(); err != nil {
		return applyErr("swap", err)
	}
	return nil
}

// Undo swaps them back.
func (c *Swap) Undo(s Stack) error {
	if err := s.SwapTop(); err != nil {
		return applyErr("swap undo", err)
	}
	return nil
}

// Clone returns a new Swap.
func (c *Swap) Clone() Command {
	return &Swap{}
}

// Help returns the help text.
func (c *Swap) Help() string {
	return "Swap the top two elements of the stack"
}

// Drop removes the top value.
type Drop struct {
	dropped float64
}

// Execute pops the top value and remembers it.
func (c *Drop) Execute(s Stack) error {
	if err := requireDepth(s, 1, msgSingleDepth); err != nil {
		return err
	}
	v, err := s.Pop(false)
	if err != nil {
		return applyErr("drop", err)
	}
	c.dropped = v
	return nil
}

// Undo pushes the dropped value back.
func (c *Drop) Undo(s Stack) error {
	if err := s.Push(c.dropped, false); err != nil {
		return applyErr("drop undo", err)
	}
	return nil
}

// Clone returns a copy of c.
func (c *Drop) Clone() Command {
	cp := *c
	return &cp
}

// Help returns the help text.
func (c *Drop) Help() string {
	return "Drop the top element from the stack"
}

// Clear empties the stack, remembering its contents for Undo.
type Clear struct {
	saved []float64 // popped order, top first
}

// Execute pops every value. Only the last pop raises a change.
func (c *Clear) Execute(s Stack) error {
	c.saved = c.saved[:0]
	n := s.Size()
	for i := 0; i < n; i++ {
		v, err := s.Pop(i < n-1)
		if err != nil {
			return applyErr("clear", err)
		}
		c.saved = append(c.saved, v)
	}
	return nil
}

// Undo pushes the values back. Only the last push raises a change.
func (c *Clear) Undo(s Stack) error {
	n := len(c.saved)
	for i := n - 1; i >= 0; i-- {
		if err := s.Push(c.saved[i], i > 0); err != nil {
			return applyErr("clear undo", err)
		}
	}
	c.saved = c.saved[:0]
	return nil
}

// Clone returns a copy of c with its own saved values.
func (c *Clear) Clone() Command {
	return &Clear{saved: append([]float64(nil), c.saved...)}
}

// Help returns the help text.
func (c *Clear) Help() string {
	return "Clear the stack"
}

// Duplicate pushes a copy of the top value.
type Duplicate struct{}

// Execute pushes a copy of the top value.
func (c *Duplicate) Execute(s Stack) error {
	if err := requireDepth(s, 1, msgSingleDepth); err != nil {
		return err
	}
	if err := s.Push(s.Elements(1)[0], false); err != nil {
		return applyErr("dup", err)
	}
	return nil
}

// Undo pops the copy.
func (c *Duplicate) Undo(s Stack) error {
	if _, err := s.Pop(false); err != nil {
		return applyErr("dup undo", err)
	}
	return nil
}

// Clone returns a new Duplicate.
func (c *Duplicate) Clone() Command {
	return &Duplicate{}
}

// Help returns the help text.
func (c *Duplicate) Help() string {
	return "Duplicates the top number on the stack"
}

// PassesPowerTest reports whether y^x has a real result.
// A zero base needs a non-negative exponent and a negative base needs an
// integral exponent.
func PassesPowerTest(y, x float64) bool {
	if y == 0 && x < 0 {
		return false
	}
	if _, frac := math.Modf(x); y < 0 && frac != 0 {
		return false
	}
	return true
}

// NewAdd returns the + command.
func NewAdd() *Binary {
	return NewBinary("Replace first two elements on the stack with their sum",
		func(next, top float64) float64 { return next + top }, nil)
}

// NewSubtract returns the - command.
func NewSubtract() *Binary {
	return NewBinary("Replace first two elements on the stack with their difference",
		func(next, top float64) float64 { return next - top }, nil)
}

// NewMultiply returns the * command.
func NewMultiply() *Binary {
	return NewBinary("Replace first two elements on the stack with their product",
		func(next, top float64) float64 { return next * top }, nil)
}

// NewDivide returns the / command. Only an exact zero divisor is rejected.
func NewDivide() *Binary {
	return NewBinary("Replace first two elements on the stack with their quotient",
		func(next, top float64) float64 { return next / top },
		func(_, top float64) string {
			if top == 0 {
				return msgDivByZero
			}
			return ""
		})
}

// NewPower returns the pow command. With y = next and x = top it computes y^x.
func NewPower() *Binary {
	return NewBinary("Replace first two elements on the stack, y, x, with y^x. Note, x is top of stack",
		math.Pow,
		func(next, top float64) string {
			if !PassesPowerTest(next, top) {
				return msgInvalid
			}
			return ""
		})
}

// NewRoot returns the root command. With y = next and x = top it computes
// the xth root of y.
func NewRoot() *Binary {
	return NewBinary("Replace first two elements on the stack, y, x, with xth root of y. Note, x is top of stack",
		root,
		func(next, top float64) string {
			if top == 0 || !PassesPowerTest(next, 1/top) {
				return msgInvalid
			}
			return ""
		})
}

// root returns the xth root of y. An integral x whose root is exactly
// representable yields that value rather than the nearest pow result,
// so 27 3 root is 3.
func root(y, x float64) float64 {
	r := math.Pow(y, 1/x)
	if x != math.Trunc(x) {
		return r
	}
	if n := math.Round(r); n != r && math.Pow(n, x) == y {
		return n
	}
	return r
}

// NewSine returns the sin command.
func NewSine() *Unary {
	return NewUnary("Replace the first element, x, on the stack with sin(x). x must be in radians", math.Sin, nil)
}

// NewCosine returns the cos command.
func NewCosine() *Unary {
	return NewUnary("Replace the first element, x, on the stack with cos(x). x must be in radians", math.Cos, nil)
}

// NewTangent returns the tan command. Arguments within eps of an odd
// multiple of pi/2 are rejected.
func NewTangent() *Unary {
	return NewUnary("Replace the first element, x, on the stack with tan(x). x must be in radians",
		math.Tan,
		func(x float64) string {
			r := math.Abs(x+math.Pi/2) / math.Pi
			r -= math.Floor(r + eps)
			if r < eps && r > -eps {
				return msgInfinite
			}
			return ""
		})
}

// NewArcsine returns the arcsin command.
func NewArcsine() *Unary {
	return NewUnary("Replace the first element, x, on the stack with arcsin(x). Returns result in radians",
		math.Asin, unitInterval)
}

// NewArccosine returns the arccos command.
func NewArccosine() *Unary {
	return NewUnary("Replace the first element, x, on the stack with arccos(x). Returns result in radians",
		math.Acos, unitInterval)
}

// NewArctangent returns the arctan command.
func NewArctangent() *Unary {
	return NewUnary("Replace the first element, x, on the stack with arctan(x). Returns result in radians",
		math.Atan, nil)
}

// NewNegate returns the neg command.
func NewNegate() *Unary {
	return NewUnary("Negates the top number on the stack",
		func(x float64) float64 { return -x }, nil)
}

func unitInterval(x float64) string {
	if x < -1 || x > 1 {
		return msgInvalidArg
	}
	return ""
}

// Registrar accepts command prototypes by name.
type Registrar interface {
	Register(name string, c Command) error
}

// RegisterCoreCommands registers every built-in command with r.
func RegisterCoreCommands(r Registrar) error {
	core := []struct {
		name string
		cmd  Command
	}{
		{"swap", &Swap{}},
		{"drop", &Drop{}},
		{"clear", &Clear{}},
		{"+", NewAdd()},
		{"-", NewSubtract()},
		{"*", NewMultiply()},
		{"/", NewDivide()},
		{"pow", NewPower()},
		{"root", NewRoot()},
		{"sin", NewSine()},
		{"cos", NewCosine()},
		{"tan", NewTangent()},
		{"arcsin", NewArcsine()},
		{"arccos", NewArccosine()},
		{"arctan", NewArctangent()},
		{"neg", NewNegate()},
		{"dup", &Duplicate{}},
	}

	for _, c := range core {
		if err := r.Register(c.name, c.cmd); err != nil {
			return fmt.Errorf("register core command %q: %w", c.name, err)
		}
	}
	return nil
}
