package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/logging"
	"github.com/dshills/stackcalc/internal/plugin/api"
	plua "github.com/dshills/stackcalc/internal/plugin/lua"
)

// User-facing messages posted by the loader.
const (
	msgNoManifest   = "Could not open plugin file"
	msgOpenFailed   = "Error opening plugin: %s"
	msgIncompatible = "Plugin API version is incompatible. Need v. 1.0."
	msgMalformed    = "Plugin %s has a malformed descriptor"
)

// Poster receives user-facing messages.
type Poster interface {
	PostMessage(msg string)
}

// Record describes one loaded library.
type Record struct {
	Name   string
	Plugin api.Plugin
	State  State
}

// Loader discovers plugin libraries from a manifest and owns them for
// the rest of the session.
type Loader struct {
	mu         sync.Mutex
	handles    []*handle
	factory    Factory
	logger     *logging.Logger
	luaTimeout time.Duration
	closed     bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l.WithComponent("plugin")
		}
	}
}

// WithFactory overrides how dynamic loaders are created.
func WithFactory(f Factory) LoaderOption {
	return func(ld *Loader) {
		ld.factory = f
	}
}

// WithLuaTimeout sets the execution timeout for Lua plugins.
func WithLuaTimeout(d time.Duration) LoaderOption {
	return func(ld *Loader) {
		ld.luaTimeout = d
	}
}

// NewLoader creates a plugin loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:     logging.Nop(),
		luaTimeout: plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.factory == nil {
		l.factory = func(name string) DynamicLoader {
			return NewDynamicLoader(name, l.logger, l.luaTimeout)
		}
	}
	return l
}

// LoadPlugins opens every library listed in the manifest. Failures are
// posted and skipped; a missing manifest is posted and loads nothing.
func (l *Loader) LoadPlugins(poster Poster, manifestPath string) {
	names, err := ReadManifest(manifestPath)
	if err != nil {
		l.logger.Info("manifest %s: %v", manifestPath, err)
		poster.PostMessage(msgNoManifest)
		return
	}

	for _, name := range names {
		l.load(poster, name)
	}
}

// load opens one library.
func (l *Loader) load(poster Poster, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.logger.Warn("open %s: %v", name, ErrLoaderClosed)
		poster.PostMessage(fmt.Sprintf(msgOpenFailed, name))
		return
	}

	dl := l.factory(name)
	p, err := dl.Allocate(name)
	if err != nil || p == nil {
		l.logger.Warn("open %s: %v", name, err)
		poster.PostMessage(fmt.Sprintf(msgOpenFailed, name))
		_ = dl.Close()
		return
	}

	l.handles = append(l.handles, &handle{name: name, loader: dl, plugin: p, state: StateLoaded})
	l.logger.Info("loaded %s (api %s)", name, p.APIVersion())
}

// Plugins returns the plugins loaded so far, in load order.
func (l *Loader) Plugins() []api.Plugin {
	l.mu.Lock()
	defer l.mu.Unlock()

	plugins := make([]api.Plugin, 0, len(l.handles))
	for _, h := range l.handles {
		plugins = append(plugins, h.plugin)
	}
	return plugins
}

// Records returns a snapshot of every loaded library.
func (l *Loader) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]Record, 0, len(l.handles))
	for _, h := range l.handles {
		records = append(records, Record{Name: h.name, Plugin: h.plugin, State: h.state})
	}
	return records
}

// Register registers an owned clone of every command of every compatible
// plugin and returns the injected names, sorted. Incompatible plugins
// and name collisions are posted and skipped.
func (l *Loader) Register(poster Poster, reg command.Registrar) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var injected []string
	for _, h := range l.handles {
		if h.state != StateLoaded {
			continue
		}

		if v := h.plugin.APIVersion(); !v.Compatible() {
			l.logger.Warn("%s: api version %s, need %s", h.name, v, api.Supported)
			poster.PostMessage(msgIncompatible)
			h.state = StateRejected
			continue
		}

		desc := h.plugin.Descriptor()
		if desc.Len() < 0 {
			poster.PostMessage(fmt.Sprintf(msgMalformed, h.name))
			h.state = StateRejected
			continue
		}

		for i, name := range desc.Names {
			owned := h.own(desc.Commands[i].Clone())
			if err := reg.Register(name, owned); err != nil {
				poster.PostMessage(err.Error())
				owned.Release()
				continue
			}
			injected = append(injected, name)
		}
		h.state = StateRegistered
	}

	sort.Strings(injected)
	return injected
}

// Close deallocates every plugin through the loader that allocated it and
// closes the libraries, newest first. Libraries that still have live
// commands are reported as defects.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var errs []error
	for i := len(l.handles) - 1; i >= 0; i-- {
		h := l.handles[i]

		if n := h.live.Load(); n > 0 {
			err := &LiveCommandsError{Plugin: h.name, Live: n}
			l.logger.Error("%v", err)
			errs = append(errs, err)
		}
		if err := h.loader.Deallocate(h.plugin); err != nil {
			errs = append(errs, fmt.Errorf("deallocate %s: %w", h.name, err))
		}
		if err := h.loader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", h.name, err))
		}
		h.state = StateClosed
	}
	return errors.Join(errs...)
}
