package plugin

// State represents the lifecycle state of a loaded library.
type State int

// Library states.
const (
	// StateLoaded - AllocPlugin succeeded.
	StateLoaded State = iota

	// StateRegistered - commands have been registered.
	StateRegistered

	// StateRejected - the plugin failed validation and was skipped.
	StateRejected

	// StateClosed - the plugin is deallocated and the library closed.
	StateClosed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateRegistered:
		return "registered"
	case StateRejected:
		return "rejected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
