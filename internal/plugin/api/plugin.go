package api

import (
	"fmt"

	"github.com/dshills/stackcalc/internal/command"
)

// Entry point names every plugin library must export.
const (
	AllocSymbol   = "AllocPlugin"
	DeallocSymbol = "DeallocPlugin"
)

// Version is a plugin API version.
type Version struct {
	Major int
	Minor int
}

// Supported is the only API version the host accepts.
var Supported = Version{Major: 1, Minor: 0}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether v matches Supported exactly.
func (v Version) Compatible() bool {
	return v == Supported
}

// Descriptor lists the commands a plugin provides. Names and Commands are
// parallel: Commands[i] is the prototype registered as Names[i].
type Descriptor struct {
	Names    []string
	Commands []command.Command
}

// Len returns the number of commands, or -1 if Names and Commands differ
// in length.
func (d Descriptor) Len() int {
	if len(d.Names) != len(d.Commands) {
		return -1
	}
	return len(d.Names)
}

// ButtonDescriptor tells a graphical front end how to lay out buttons for
// plugin commands. All four slices are parallel.
type ButtonDescriptor struct {
	PrimaryDisplay []string
	PrimaryCommand []string
	ShiftedDisplay []string
	ShiftedCommand []string
}

// Len returns the number of buttons, or -1 if the slices differ in length.
func (b *ButtonDescriptor) Len() int {
	n := len(b.PrimaryDisplay)
	if len(b.PrimaryCommand) != n || len(b.ShiftedDisplay) != n || len(b.ShiftedCommand) != n {
		return -1
	}
	return n
}

// Plugin is the object returned by a library's AllocPlugin.
type Plugin interface {
	// APIVersion reports the API version the plugin was built against.
	APIVersion() Version

	// Descriptor lists the plugin's command prototypes.
	Descriptor() Descriptor

	// ButtonDescriptor returns button layout hints, or nil.
	ButtonDescriptor() *ButtonDescriptor
}

// Deallocator is implemented by plugin commands that must be freed by the
// library that allocated them.
type Deallocator interface {
	Deallocate()
}

// AllocFunc is the signature of the AllocPlugin entry point.
type AllocFunc = func() Plugin

// DeallocFunc is the signature of the DeallocPlugin entry point.
type DeallocFunc = func(Plugin)
