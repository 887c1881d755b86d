// Package history provides the undo/redo manager for executed commands.
//
// A Manager keeps a two-sided timeline: the undo side holds executed
// commands, most recent last, and the redo side holds undone commands,
// most recently undone last. Executing a new command releases the whole
// redo side.
//
// Three interchangeable strategies realize the timeline:
//
//   - StrategyStack keeps two slices used as stacks.
//   - StrategyVector keeps one slice and a cursor.
//   - StrategyList keeps a doubly linked list with a sentinel and a cursor.
//
// All three behave identically and are O(1) amortized for execute, undo
// and redo.
package history
