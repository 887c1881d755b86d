package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/stackcalc/internal/command"
)

type counted struct {
	command.Swap
	released *int
}

func (c *counted) Clone() command.Command {
	return &counted{released: c.released}
}

func (c *counted) Release() { *c.released++ }

func TestRegistry_Register(t *testing.T) {
	r := New()

	if err := r.Register("swap", &command.Swap{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if r.Count() != 1 || !r.Has("swap") {
		t.Error("command not registered")
	}

	err := r.Register("swap", &command.Drop{})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Register() error = %v", err)
	}
	if err.Error() != "Command swap already registered" {
		t.Errorf("duplicate message = %q", err)
	}
	if r.Count() != 1 {
		t.Errorf("Count() after duplicate = %d, want 1", r.Count())
	}
	if _, ok := r.Allocate("swap").(*command.Swap); !ok {
		t.Error("duplicate replaced the original prototype")
	}

	if err := r.Register("", &command.Swap{}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Register(\"\") error = %v", err)
	}
	if err := r.Register("x", nil); !errors.Is(err, ErrNilCommand) {
		t.Errorf("Register(nil) error = %v", err)
	}
}

func TestRegistry_CaseSensitive(t *testing.T) {
	r := New()
	_ = r.Register("Sin", command.NewSine())
	if r.Has("sin") {
		t.Error("lookup should be case-sensitive")
	}
	if err := r.Register("sin", command.NewSine()); err != nil {
		t.Errorf("Register(sin) error = %v", err)
	}
}

func TestRegistry_Deregister(t *testing.T) {
	r := New()
	swap := &command.Swap{}
	_ = r.Register("swap", swap)

	if got := r.Deregister("nope"); got != nil {
		t.Errorf("Deregister(unknown) = %v, want nil", got)
	}
	if r.Count() != 1 {
		t.Error("Deregister(unknown) changed the registry")
	}

	if got := r.Deregister("swap"); got != command.Command(swap) {
		t.Errorf("Deregister() = %v, want the prototype", got)
	}
	if r.Count() != 0 {
		t.Error("command still registered")
	}
}

func TestRegistry_AllocateClones(t *testing.T) {
	r := New()
	proto := command.NewAdd()
	_ = r.Register("+", proto)

	a := r.Allocate("+")
	b := r.Allocate("+")
	if a == nil || b == nil {
		t.Fatal("Allocate() returned nil")
	}
	if a == command.Command(proto) || a == b {
		t.Error("Allocate() should return fresh clones")
	}
	if r.Allocate("nope") != nil {
		t.Error("Allocate(unknown) should return nil")
	}
}

func TestRegistry_NamesAndHelp(t *testing.T) {
	r := New()
	if err := command.RegisterCoreCommands(r); err != nil {
		t.Fatal(err)
	}

	names := r.Names()
	if len(names) != 17 {
		t.Errorf("len(Names()) = %d, want 17", len(names))
	}
	if !reflect.DeepEqual(names[:4], []string{"*", "+", "-", "/"}) {
		t.Errorf("Names() not sorted: %v", names)
	}

	if got := r.HelpMessage("+"); got != "+: Replace first two elements on the stack with their sum" {
		t.Errorf("HelpMessage(+) = %q", got)
	}
	if got := r.HelpMessage("nope"); got != "nope: no help entry found" {
		t.Errorf("HelpMessage(nope) = %q", got)
	}
}

func TestRegistry_ClearReleases(t *testing.T) {
	r := New()
	n := 0
	_ = r.Register("a", &counted{released: &n})
	_ = r.Register("b", &counted{released: &n})
	_ = r.Register("c", &command.Swap{})

	r.Clear()
	if n != 2 {
		t.Errorf("released = %d, want 2", n)
	}
	if r.Count() != 0 {
		t.Errorf("Count() after Clear = %d", r.Count())
	}
}
