// Package command defines the reversible unit of work the calculator runs.
//
// A Command checks its preconditions against a Stack, applies itself, and
// keeps enough state to reverse exactly that application. Commands are
// values: the registry holds prototypes and hands out clones, and the
// history owns the clones it has executed.
//
// Two shapes cover most operations:
//
//   - Unary pops one value x and pushes f(x).
//   - Binary pops top then next and pushes f(next, top).
//
// Both suppress the intermediate stack notifications so that a single
// logical operation raises exactly one stack change. Commands with other
// shapes (Swap, Drop, Clear, Duplicate, EnterNumber) implement the
// interface directly.
//
// # Ownership
//
// Some commands hold resources that must be returned to whoever allocated
// them, plugin commands in particular. Such commands implement Releaser,
// and containers that drop a command call Release rather than letting it
// fall out of scope.
package command
