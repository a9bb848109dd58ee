package pipeline

// State tracks one execution through the request lifecycle. Transitions
// run Building -> Signed -> Sent, then Sent -> Succeeded, Sent ->
// Retrying -> Building, or Sent -> Failed. Succeeded and Failed are
// terminal.
type State int

const (
	// StateBuilding covers option resolution and request construction.
	StateBuilding State = iota

	// StateSigned marks a built request carrying its Authorization
	// header.
	StateSigned

	// StateSent marks a request on the wire awaiting its outcome.
	StateSent

	// StateSucceeded is terminal: the operation completed.
	StateSucceeded

	// StateRetrying marks a failed attempt waiting out its backoff.
	StateRetrying

	// StateFailed is terminal: the operation surfaced an error.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateSigned:
		return "signed"
	case StateSent:
		return "sent"
	case StateSucceeded:
		return "succeeded"
	case StateRetrying:
		return "retrying"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can occur.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
