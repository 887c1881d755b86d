package plugin

import (
	"sync/atomic"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/plugin/api"
)

// handle is one opened library and the plugin it allocated.
type handle struct {
	name   string
	loader DynamicLoader
	plugin api.Plugin
	state  State

	// live counts owned commands not yet released.
	live atomic.Int64
}

// own wraps c so that releasing it returns it to h's library.
func (h *handle) own(c command.Command) *ownedCommand {
	h.live.Add(1)
	return &ownedCommand{Command: c, owner: h}
}

// ownedCommand is a plugin-derived command bound to its library.
type ownedCommand struct {
	command.Command
	owner    *handle
	released bool
}

// Clone clones the wrapped command and binds the clone to the same library.
func (o *ownedCommand) Clone() command.Command {
	return o.owner.own(o.Command.Clone())
}

// Release deallocates the wrapped command through its library.
func (o *ownedCommand) Release() {
	if o.released {
		return
	}
	o.released = true

	if d, ok := o.Command.(api.Deallocator); ok {
		d.Deallocate()
	}
	o.owner.live.Add(-1)
}

// Owner returns the name of the library the command came from.
func (o *ownedCommand) Owner() string {
	return o.owner.name
}
