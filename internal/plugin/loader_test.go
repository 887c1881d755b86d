package plugin

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/plugin/api"
	"github.com/dshills/stackcalc/internal/registry"
	"github.com/dshills/stackcalc/internal/stack"
)

type posted []string

func (p *posted) PostMessage(msg string) { *p = append(*p, msg) }

// fakeCommand counts deallocations of itself and its clones.
type fakeCommand struct {
	command.Command
	deallocs *int
}

func (f *fakeCommand) Clone() command.Command {
	return &fakeCommand{Command: f.Command.Clone(), deallocs: f.deallocs}
}

func (f *fakeCommand) Deallocate() { *f.deallocs++ }

type fakePlugin struct {
	version api.Version
	desc    api.Descriptor
}

func (p *fakePlugin) APIVersion() api.Version { return p.version }
func (p *fakePlugin) Descriptor() api.Descriptor { return p.desc }
func (p *fakePlugin) ButtonDescriptor() *api.ButtonDescriptor { return nil }

// fakeLoader records calls into a shared log.
type fakeLoader struct {
	log      *[]string
	deallocs *int
	base     string
}

func (f *fakeLoader) Allocate(name string) (api.Plugin, error) {
	f.base = filepath.Base(name)
	*f.log = append(*f.log, "alloc "+f.base)

	switch f.base {
	case "broken.so":
		return nil, api.ErrMissingSymbol
	case "old.so":
		return &fakePlugin{version: api.Version{Major: 0, Minor: 9}}, nil
	case "clash.so":
		return &fakePlugin{version: api.Supported, desc: api.Descriptor{
			Names:    []string{"sin", "cube"},
			Commands: []command.Command{f.cmd(command.NewSine()), f.cmd(cube())},
		}}, nil
	default:
		return &fakePlugin{version: api.Supported, desc: api.Descriptor{
			Names:    []string{"cube"},
			Commands: []command.Command{f.cmd(cube())},
		}}, nil
	}
}

func (f *fakeLoader) cmd(c command.Command) command.Command {
	return &fakeCommand{Command: c, deallocs: f.deallocs}
}

func (f *fakeLoader) Deallocate(api.Plugin) error {
	*f.log = append(*f.log, "dealloc "+f.base)
	return nil
}

func (f *fakeLoader) Close() error {
	*f.log = append(*f.log, "close "+f.base)
	return nil
}

func cube() command.Command {
	return command.NewUnary("cube", func(x float64) float64 { return x * x * x }, nil)
}

func writeManifest(t *testing.T, dir string, names ...string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultManifest)
	if err := os.WriteFile(path, []byte(strings.Join(names, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newFakeLoader(log *[]string, deallocs *int) *Loader {
	return NewLoader(WithFactory(func(string) DynamicLoader {
		return &fakeLoader{log: log, deallocs: deallocs}
	}))
}

func TestLoader_MissingManifest(t *testing.T) {
	var msgs posted
	l := NewLoader()
	l.LoadPlugins(&msgs, filepath.Join(t.TempDir(), "nope.pdp"))

	if !reflect.DeepEqual([]string(msgs), []string{"Could not open plugin file"}) {
		t.Errorf("messages = %q", msgs)
	}
	if len(l.Plugins()) != 0 {
		t.Error("no plugins should be loaded")
	}
}

func TestLoader_LoadAndRegister(t *testing.T) {
	var (
		log      []string
		deallocs int
		msgs     posted
	)
	dir := t.TempDir()
	l := newFakeLoader(&log, &deallocs)
	l.LoadPlugins(&msgs, writeManifest(t, dir, "good.so", "broken.so", "old.so"))

	if len(l.Plugins()) != 2 {
		t.Fatalf("len(Plugins()) = %d, want 2", len(l.Plugins()))
	}
	wantMsg := fmt.Sprintf("Error opening plugin: %s", filepath.Join(dir, "broken.so"))
	if !reflect.DeepEqual([]string(msgs), []string{wantMsg}) {
		t.Errorf("messages = %q", msgs)
	}

	msgs = nil
	reg := registry.New()
	injected := l.Register(&msgs, reg)
	if !reflect.DeepEqual(injected, []string{"cube"}) {
		t.Errorf("injected = %v", injected)
	}
	if !reflect.DeepEqual([]string(msgs), []string{"Plugin API version is incompatible. Need v. 1.0."}) {
		t.Errorf("messages = %q", msgs)
	}

	states := map[string]State{}
	for _, r := range l.Records() {
		states[filepath.Base(r.Name)] = r.State
	}
	if states["good.so"] != StateRegistered || states["old.so"] != StateRejected {
		t.Errorf("states = %v", states)
	}

	// Registered commands work and clones stay owned
	s := stack.New()
	_ = s.Push(2, true)
	c := reg.Allocate("cube")
	if err := c.Execute(s); err != nil {
		t.Fatal(err)
	}
	if got := s.Elements(1)[0]; got != 8 {
		t.Errorf("2 cube = %v", got)
	}
	if _, ok := c.(*ownedCommand); !ok {
		t.Errorf("Allocate() returned %T, want an owned command", c)
	}

	command.Release(c)
	reg.Clear()
	if deallocs != 2 {
		t.Errorf("deallocs = %d, want 2", deallocs)
	}

	log = nil
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := []string{"dealloc old.so", "close old.so", "dealloc good.so", "close good.so"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("close order = %q, want %q", log, want)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestLoader_RegisterCollision(t *testing.T) {
	var (
		log      []string
		deallocs int
		msgs     posted
	)
	l := newFakeLoader(&log, &deallocs)
	l.LoadPlugins(&msgs, writeManifest(t, t.TempDir(), "clash.so"))

	reg := registry.New()
	if err := command.RegisterCoreCommands(reg); err != nil {
		t.Fatal(err)
	}
	before := reg.Count()

	injected := l.Register(&msgs, reg)
	if !reflect.DeepEqual(injected, []string{"cube"}) {
		t.Errorf("injected = %v", injected)
	}
	if !reflect.DeepEqual([]string(msgs), []string{"Command sin already registered"}) {
		t.Errorf("messages = %q", msgs)
	}
	if reg.Count() != before+1 {
		t.Errorf("Count() = %d, want %d", reg.Count(), before+1)
	}
	if deallocs != 1 {
		t.Errorf("rejected clone deallocs = %d, want 1", deallocs)
	}

	reg.Clear()
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestLoader_CloseWithLiveCommands(t *testing.T) {
	var (
		log      []string
		deallocs int
		msgs     posted
	)
	l := newFakeLoader(&log, &deallocs)
	l.LoadPlugins(&msgs, writeManifest(t, t.TempDir(), "good.so"))

	reg := registry.New()
	l.Register(&msgs, reg)
	held := reg.Allocate("cube")

	reg.Clear()
	err := l.Close()
	var live *LiveCommandsError
	if !errors.As(err, &live) || live.Live != 1 {
		t.Fatalf("Close() error = %v, want one live command", err)
	}
	if !errors.Is(err, ErrLiveCommands) {
		t.Error("error should match ErrLiveCommands")
	}
	command.Release(held)
}

func TestLoader_LoadAfterClose(t *testing.T) {
	var (
		log      []string
		deallocs int
		msgs     posted
	)
	l := newFakeLoader(&log, &deallocs)
	_ = l.Close()
	l.LoadPlugins(&msgs, writeManifest(t, t.TempDir(), "good.so"))

	if len(l.Plugins()) != 0 || len(msgs) != 1 {
		t.Errorf("plugins = %d, messages = %q", len(l.Plugins()), msgs)
	}
}

const hyperbolicLua = `
function AllocPlugin()
    return {
        version = { major = 1, minor = 0 },
        commands = {
            { name = "sinh", help = "Replace the first element, x, on the stack with sinh(x)",
              fn = function(x) return (math.exp(x) - math.exp(-x)) / 2 end },
            { name = "cosh", help = "Replace the first element, x, on the stack with cosh(x)",
              fn = function(x) return (math.exp(x) + math.exp(-x)) / 2 end },
        },
    }
end

function DeallocPlugin(p) end
`

func TestLoader_LuaPlugin(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hyperbolic.lua"), []byte(hyperbolicLua), 0o644); err != nil {
		t.Fatal(err)
	}

	var msgs posted
	l := NewLoader()
	l.LoadPlugins(&msgs, writeManifest(t, dir, "hyperbolic.lua"))
	if len(msgs) != 0 {
		t.Fatalf("messages = %q", msgs)
	}
	if len(l.Plugins()) != 1 {
		t.Fatalf("len(Plugins()) = %d, want 1", len(l.Plugins()))
	}

	reg := registry.New()
	_ = command.RegisterCoreCommands(reg)
	injected := l.Register(&msgs, reg)
	if !reflect.DeepEqual(injected, []string{"cosh", "sinh"}) {
		t.Errorf("injected = %v", injected)
	}

	s := stack.New()
	_ = s.Push(1, true)
	for _, name := range []string{"sinh", "cosh"} {
		c := reg.Allocate(name)
		if err := c.Execute(s); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		command.Release(c)
	}
	if got, want := s.Elements(1)[0], math.Cosh(math.Sinh(1)); math.Abs(got-want) > 1e-12 {
		t.Errorf("1 sinh cosh = %v, want %v", got, want)
	}

	reg.Clear()
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
