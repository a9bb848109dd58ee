package options

// settingState tracks which of the three states a Setting is in.
type settingState uint8

const (
	stateUnset settingState = iota
	stateDisabled
	stateSet
)

// Setting is a tri-state optional field for the layered options merge.
//
// The zero value is Unset, meaning "inherit from the next layer down".
// Disabled records an explicit opt-out: it is a terminal value that lower
// layers must never override, which is what distinguishes "caller turned
// this off" from "caller said nothing". Value carries a concrete setting.
type Setting[T any] struct {
	state settingState
	value T
}

// Value returns a Setting explicitly set to v.
func Value[T any](v T) Setting[T] {
	return Setting[T]{state: stateSet, value: v}
}

// Disabled returns a Setting explicitly turned off.
func Disabled[T any]() Setting[T] {
	return Setting[T]{state: stateDisabled}
}

// IsUnset reports whether the setting inherits from the next layer.
func (s Setting[T]) IsUnset() bool {
	return s.state == stateUnset
}

// IsDisabled reports whether the setting was explicitly turned off.
func (s Setting[T]) IsDisabled() bool {
	return s.state == stateDisabled
}

// IsValue reports whether the setting carries an explicit value.
func (s Setting[T]) IsValue() bool {
	return s.state == stateSet
}

// Get returns the value and whether one is set. Disabled and Unset
// settings return the zero value and false.
func (s Setting[T]) Get() (T, bool) {
	if s.state != stateSet {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Or merges two layers: the receiver wins unless it is Unset. An
// explicitly Disabled receiver short-circuits, never falling through.
func (s Setting[T]) Or(lower Setting[T]) Setting[T] {
	if s.state == stateUnset {
		return lower
	}
	return s
}

func (s Setting[T]) String() string {
	switch s.state {
	case stateDisabled:
		return "disabled"
	case stateSet:
		return "set"
	default:
		return "unset"
	}
}
