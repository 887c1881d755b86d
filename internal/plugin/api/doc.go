// Package api defines the contract between stackcalc and its plugins.
//
// A plugin library exports two entry points:
//
//	func AllocPlugin() api.Plugin
//	func DeallocPlugin(p api.Plugin)
//
// AllocPlugin returns a Plugin describing the commands the library
// provides. Every object the library hands out, the Plugin itself and any
// command prototype or clone, must be returned to the same library:
// the Plugin through DeallocPlugin and commands through Deallocator.
// The host never drops a plugin object without doing so.
//
// The host accepts plugins whose APIVersion equals Supported.
package api
