package lua

import (
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/plugin/api"
)

// Plugin is the host-side view of a table returned by AllocPlugin.
type Plugin struct {
	loader  *Loader
	table   *lua.LTable
	version api.Version
	desc    api.Descriptor
	buttons *api.ButtonDescriptor

	deallocated bool
}

// APIVersion implements api.Plugin.
func (p *Plugin) APIVersion() api.Version { return p.version }

// Descriptor implements api.Plugin.
func (p *Plugin) Descriptor() api.Descriptor { return p.desc }

// ButtonDescriptor implements api.Plugin.
func (p *Plugin) ButtonDescriptor() *api.ButtonDescriptor { return p.buttons }

// Loader loads one Lua script and allocates its plugin.
type Loader struct {
	opts  []StateOption
	state *State
	path  string
	live  atomic.Int64
}

// NewLoader creates a loader. The options apply to the state it creates.
func NewLoader(opts ...StateOption) *Loader {
	return &Loader{opts: opts}
}

// Allocate runs the script at path and calls its AllocPlugin.
func (l *Loader) Allocate(path string) (api.Plugin, error) {
	if l.state != nil {
		return nil, api.ErrAlreadyOpen
	}

	state, err := NewState(l.opts...)
	if err != nil {
		return nil, err
	}
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	for _, sym := range []string{api.AllocSymbol, api.DeallocSymbol} {
		if state.GetGlobal(sym).Type() != lua.LTFunction {
			state.Close()
			return nil, fmt.Errorf("%w: %s", api.ErrMissingSymbol, sym)
		}
	}

	l.state, l.path = state, path

	ret, err := state.Call(api.AllocSymbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", api.AllocSymbol, err)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: %s returned nothing", api.ErrInvalidPlugin, api.AllocSymbol)
	}
	tbl, ok := ret[0].(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %s", api.ErrInvalidPlugin, api.AllocSymbol, ret[0].Type())
	}

	p, err := l.decode(tbl)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Deallocate releases the plugin's prototypes and calls DeallocPlugin.
func (l *Loader) Deallocate(p api.Plugin) error {
	lp, ok := p.(*Plugin)
	if !ok || lp.loader != l {
		return api.ErrForeignPlugin
	}
	if lp.deallocated {
		return nil
	}
	lp.deallocated = true

	for _, c := range lp.desc.Commands {
		if d, ok := c.(api.Deallocator); ok {
			d.Deallocate()
		}
	}

	if _, err := l.state.Call(api.DeallocSymbol, lp.table); err != nil {
		return fmt.Errorf("%s: %w", api.DeallocSymbol, err)
	}
	return nil
}

// Close closes the Lua state.
func (l *Loader) Close() error {
	if l.state == nil {
		return nil
	}
	return l.state.Close()
}

// Live returns the number of commands allocated by this loader that have
// not been deallocated.
func (l *Loader) Live() int64 {
	return l.live.Load()
}

// decode converts the AllocPlugin table into a Plugin. On failure every
// command decoded so far is deallocated.
func (l *Loader) decode(tbl *lua.LTable) (_ *Plugin, err error) {
	p := &Plugin{loader: l, table: tbl}
	defer func() {
		if err != nil {
			for _, c := range p.desc.Commands {
				c.(api.Deallocator).Deallocate()
			}
		}
	}()

	version, ok := tbl.RawGetString("version").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: missing version table", api.ErrInvalidPlugin)
	}
	p.version = api.Version{
		Major: intField(version, "major"),
		Minor: intField(version, "minor"),
	}

	commands, _ := tbl.RawGetString("commands").(*lua.LTable)
	if commands != nil {
		for i := 1; i <= commands.Len(); i++ {
			entry, ok := commands.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, fmt.Errorf("%w: command %d is not a table", api.ErrInvalidPlugin, i)
			}
			name, cmd, err := l.decodeCommand(entry)
			if err != nil {
				return nil, fmt.Errorf("command %d: %w", i, err)
			}
			p.desc.Names = append(p.desc.Names, name)
			p.desc.Commands = append(p.desc.Commands, cmd)
		}
	}

	if buttons, ok := tbl.RawGetString("buttons").(*lua.LTable); ok {
		b := &api.ButtonDescriptor{}
		for i := 1; i <= buttons.Len(); i++ {
			entry, ok := buttons.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			b.PrimaryDisplay = append(b.PrimaryDisplay, stringField(entry, "display"))
			b.PrimaryCommand = append(b.PrimaryCommand, stringField(entry, "command"))
			b.ShiftedDisplay = append(b.ShiftedDisplay, stringField(entry, "shift_display"))
			b.ShiftedCommand = append(b.ShiftedCommand, stringField(entry, "shift_command"))
		}
		p.buttons = b
	}

	return p, nil
}

func (l *Loader) decodeCommand(entry *lua.LTable) (string, command.Command, error) {
	name := stringField(entry, "name")
	if name == "" {
		return "", nil, fmt.Errorf("%w: command without a name", api.ErrInvalidPlugin)
	}

	fn, ok := entry.RawGetString("fn").(*lua.LFunction)
	if !ok {
		return "", nil, fmt.Errorf("%w: command %q has no fn", api.ErrInvalidPlugin, name)
	}

	arity := 1
	switch kind := stringField(entry, "kind"); kind {
	case "", "unary":
	case "binary":
		arity = 2
	default:
		return "", nil, fmt.Errorf("%w: command %q has unknown kind %q", api.ErrInvalidPlugin, name, kind)
	}

	check, _ := entry.RawGetString("check").(*lua.LFunction)

	l.live.Add(1)
	return name, &Command{
		state: l.state,
		live:  &l.live,
		arity: arity,
		help:  stringField(entry, "help"),
		fn:    fn,
		check: check,
	}, nil
}

func stringField(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func intField(t *lua.LTable, key string) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return -1
}
