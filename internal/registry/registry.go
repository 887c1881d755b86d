// Package registry maps command names to prototype commands and hands out
// clones of them on demand.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/stackcalc/internal/command"
)

// Registry owns command prototypes by exact, case-sensitive name.
type Registry struct {
	mu         sync.RWMutex
	prototypes map[string]command.Command
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		prototypes: make(map[string]command.Command),
	}
}

// Register takes ownership of c under name. A duplicate name fails with
// a *DuplicateError and leaves the registry unchanged; c stays with the
// caller in that case.
func (r *Registry) Register(name string, c command.Command) error {
	if name == "" {
		return ErrEmptyName
	}
	if c == nil {
		return ErrNilCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prototypes[name]; exists {
		return &DuplicateError{Name: name}
	}
	r.prototypes[name] = c
	return nil
}

// Deregister removes name and returns its prototype to the caller.
// It returns nil if name is not registered.
func (r *Registry) Deregister(name string) command.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.prototypes[name]
	if !ok {
		return nil
	}
	delete(r.prototypes, name)
	return c
}

// Allocate returns a fresh clone of the prototype registered under name,
// or nil if there is none.
func (r *Registry) Allocate(name string) command.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.prototypes[name]
	if !ok {
		return nil
	}
	return c.Clone()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.prototypes[name]
	return ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.prototypes))
	for name := range r.prototypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prototypes)
}

// HelpMessage returns "name: help" for a registered command, or
// "name: no help entry found".
func (r *Registry) HelpMessage(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.prototypes[name]; ok {
		return fmt.Sprintf("%s: %s", name, c.Help())
	}
	return fmt.Sprintf("%s: no help entry found", name)
}

// Clear removes every command, releasing each prototype.
func (r *Registry) Clear() {
	r.mu.Lock()
	old := r.prototypes
	r.prototypes = make(map[string]command.Command)
	r.mu.Unlock()

	for _, c := range old {
		command.Release(c)
	}
}
