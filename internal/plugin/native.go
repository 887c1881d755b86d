//go:build (linux || darwin || freebsd) && cgo

package plugin

import (
	"fmt"
	goplugin "plugin"

	"github.com/dshills/stackcalc/internal/plugin/api"
)

// nativeLoader opens a Go plugin built with -buildmode=plugin.
type nativeLoader struct {
	lib     *goplugin.Plugin
	dealloc api.DeallocFunc
	plugin  api.Plugin
	closed  bool
}

func newNativeLoader() DynamicLoader {
	return &nativeLoader{}
}

// Allocate opens the library at path and calls its AllocPlugin.
func (n *nativeLoader) Allocate(path string) (api.Plugin, error) {
	if n.lib != nil {
		return nil, api.ErrAlreadyOpen
	}

	lib, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	allocSym, err := lib.Lookup(api.AllocSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", api.ErrMissingSymbol, api.AllocSymbol, err)
	}
	deallocSym, err := lib.Lookup(api.DeallocSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", api.ErrMissingSymbol, api.DeallocSymbol, err)
	}

	alloc, ok := allocSym.(func() api.Plugin)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", api.ErrBadSymbol, api.AllocSymbol, allocSym)
	}
	dealloc, ok := deallocSym.(func(api.Plugin))
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", api.ErrBadSymbol, api.DeallocSymbol, deallocSym)
	}

	p := alloc()
	if p == nil {
		return nil, fmt.Errorf("%w: %s returned nil", api.ErrInvalidPlugin, api.AllocSymbol)
	}

	n.lib, n.dealloc, n.plugin = lib, dealloc, p
	return p, nil
}

// Deallocate passes the allocated plugin to DeallocPlugin once.
func (n *nativeLoader) Deallocate(p api.Plugin) error {
	if n.plugin == nil || p == nil {
		return api.ErrForeignPlugin
	}
	n.dealloc(n.plugin)
	n.plugin = nil
	return nil
}

// Close marks the library closed. Go cannot unmap a loaded plugin, so
// the code stays resident until the process exits.
func (n *nativeLoader) Close() error {
	n.closed = true
	return nil
}
