// Package plugin loads calculator plugins and manages their lifetime.
//
// A manifest file lists plugin libraries, one identifier per
// whitespace-separated token. Blank lines and lines starting with # are
// ignored, and relative names resolve against the manifest's directory.
// Each library gets its own DynamicLoader, chosen by NewDynamicLoader:
// ".lua" scripts run in a sandboxed Lua state, anything else is opened
// as a native Go plugin built with -buildmode=plugin.
//
// # Ownership
//
// A plugin and every command derived from it belong to the library that
// allocated them. Loader.Register wraps each command it hands to the
// registry so that releasing it, from the registry or the history,
// calls back into the owning library. The Loader counts live commands
// per library; it must be closed only after the registry and history have
// released everything, and it logs a defect otherwise.
//
// Typical use:
//
//	loader := plugin.NewLoader(plugin.WithLogger(logger))
//	loader.LoadPlugins(ui, "plugins.pdp")
//	injected := loader.Register(ui, reg)
//	...
//	hist.Clear()
//	reg.Clear()
//	loader.Close()
package plugin
