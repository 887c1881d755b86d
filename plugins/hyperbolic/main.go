// Command hyperbolic is a stackcalc plugin providing hyperbolic functions,
// their inverses, and the natural exponential and logarithm.
//
// Build it as a shared object and list the result in the plugin manifest:
//
//	go build -buildmode=plugin -o hyperbolic.so ./plugins/hyperbolic
//
// hyperbolic.lua in this directory provides the same commands for hosts
// built without cgo.
package main

import (
	"math"
	"sync/atomic"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/plugin/api"
)

const (
	msgImaginary = "Imaginary result"
	msgInfinite  = "Infinite result"
)

// live counts commands handed out and not yet deallocated.
var live atomic.Int64

// hyperCommand wraps a unary command so clones are tracked and returned to
// this library.
type hyperCommand struct {
	*command.Unary
	freed bool
}

func newHyperCommand(u *command.Unary) *hyperCommand {
	live.Add(1)
	return &hyperCommand{Unary: u}
}

func (c *hyperCommand) Clone() command.Command {
	return newHyperCommand(c.Unary.Clone().(*command.Unary))
}

func (c *hyperCommand) Deallocate() {
	if c.freed {
		return
	}
	c.freed = true
	live.Add(-1)
}

type function struct {
	name  string
	fn    command.UnaryFunc
	check command.UnaryCheck
}

var functions = []function{
	{"sinh", math.Sinh, nil},
	{"cosh", math.Cosh, nil},
	{"tanh", math.Tanh, nil},
	{"arcsinh", math.Asinh, nil},
	{"arccosh", math.Acosh, func(x float64) string {
		if x < 1 {
			return msgImaginary
		}
		return ""
	}},
	{"arctanh", math.Atanh, func(x float64) string {
		if x <= -1 || x >= 1 {
			return msgImaginary
		}
		return ""
	}},
	{"exp", math.Exp, nil},
	{"ln", math.Log, func(x float64) string {
		switch {
		case x == 0:
			return msgInfinite
		case x < 0:
			return msgImaginary
		}
		return ""
	}},
}

type hyperbolicPlugin struct {
	desc    api.Descriptor
	buttons *api.ButtonDescriptor
}

func (p *hyperbolicPlugin) APIVersion() api.Version {
	return api.Version{Major: 1, Minor: 0}
}

func (p *hyperbolicPlugin) Descriptor() api.Descriptor {
	return p.desc
}

func (p *hyperbolicPlugin) ButtonDescriptor() *api.ButtonDescriptor {
	return p.buttons
}

// AllocPlugin is the library entry point.
func AllocPlugin() api.Plugin {
	p := &hyperbolicPlugin{
		buttons: &api.ButtonDescriptor{
			PrimaryDisplay: []string{"sinh", "tanh", "ln"},
			PrimaryCommand: []string{"sinh", "tanh", "ln"},
			ShiftedDisplay: []string{"asinh", "atanh", "exp"},
			ShiftedCommand: []string{"arcsinh", "arctanh", "exp"},
		},
	}
	for _, f := range functions {
		help := "Replace the first element, x, on the stack with " + f.name + "(x)"
		p.desc.Names = append(p.desc.Names, f.name)
		p.desc.Commands = append(p.desc.Commands, newHyperCommand(command.NewUnary(help, f.fn, f.check)))
	}
	return p
}

// DeallocPlugin releases the prototypes created by AllocPlugin.
func DeallocPlugin(p api.Plugin) {
	hp, ok := p.(*hyperbolicPlugin)
	if !ok {
		return
	}
	for _, c := range hp.desc.Commands {
		if d, ok := c.(api.Deallocator); ok {
			d.Deallocate()
		}
	}
	hp.desc = api.Descriptor{}
}

func main() {}
