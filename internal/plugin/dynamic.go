package plugin

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/stackcalc/internal/logging"
	"github.com/dshills/stackcalc/internal/plugin/api"
	plua "github.com/dshills/stackcalc/internal/plugin/lua"
)

// DynamicLoader opens one plugin library and allocates its plugin.
// Every plugin it allocates must be returned through its own Deallocate
// before Close.
type DynamicLoader interface {
	// Allocate opens the named library and calls its AllocPlugin.
	Allocate(name string) (api.Plugin, error)

	// Deallocate passes p to the library's DeallocPlugin.
	Deallocate(p api.Plugin) error

	// Close closes the library.
	Close() error
}

// Factory creates the DynamicLoader for a library name.
type Factory func(name string) DynamicLoader

// NewDynamicLoader returns the loader for name: a Lua loader for ".lua"
// scripts and a native loader otherwise. Lua print output goes to logger.
func NewDynamicLoader(name string, logger *logging.Logger, luaTimeout time.Duration) DynamicLoader {
	if strings.EqualFold(filepath.Ext(name), ".lua") {
		if logger == nil {
			logger = logging.Nop()
		}
		base := filepath.Base(name)
		return plua.NewLoader(
			plua.WithExecutionTimeout(luaTimeout),
			plua.WithPrinter(func(s string) {
				logger.Info("%s: %s", base, s)
			}),
		)
	}
	return newNativeLoader()
}
