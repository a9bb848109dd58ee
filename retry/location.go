package retry

// Location identifies which replica endpoint an attempt targets.
type Location int

const (
	// Primary is the account's primary endpoint.
	Primary Location = iota
	// Secondary is the account's read-access secondary endpoint.
	Secondary
)

func (l Location) String() string {
	switch l {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Other returns the opposite location.
func (l Location) Other() Location {
	if l == Primary {
		return Secondary
	}
	return Primary
}

// LocationMode governs the ordered set of endpoints an operation may target.
type LocationMode int

const (
	// PrimaryOnly targets the primary endpoint for every attempt.
	PrimaryOnly LocationMode = iota
	// SecondaryOnly targets the secondary endpoint for every attempt.
	SecondaryOnly
	// PrimaryThenSecondary starts at the primary and may alternate to the
	// secondary on retry-eligible failures.
	PrimaryThenSecondary
	// SecondaryThenPrimary starts at the secondary and may alternate to the
	// primary on retry-eligible failures.
	SecondaryThenPrimary
)

func (m LocationMode) String() string {
	switch m {
	case PrimaryOnly:
		return "primary-only"
	case SecondaryOnly:
		return "secondary-only"
	case PrimaryThenSecondary:
		return "primary-then-secondary"
	case SecondaryThenPrimary:
		return "secondary-then-primary"
	default:
		return "unknown"
	}
}

// ParseLocationMode parses a string location mode. Unrecognized values
// fall back to PrimaryOnly.
func ParseLocationMode(s string) LocationMode {
	switch s {
	case "secondary-only":
		return SecondaryOnly
	case "primary-then-secondary":
		return PrimaryThenSecondary
	case "secondary-then-primary":
		return SecondaryThenPrimary
	default:
		return PrimaryOnly
	}
}

// FirstTarget returns the location of the first attempt under this mode.
func (m LocationMode) FirstTarget() Location {
	switch m {
	case SecondaryOnly, SecondaryThenPrimary:
		return Secondary
	default:
		return Primary
	}
}

// Permits reports whether the mode ever routes to the given location.
func (m LocationMode) Permits(l Location) bool {
	switch m {
	case PrimaryOnly:
		return l == Primary
	case SecondaryOnly:
		return l == Secondary
	default:
		return true
	}
}

// UsesSecondary reports whether the mode can route to the secondary.
func (m LocationMode) UsesSecondary() bool {
	return m != PrimaryOnly
}

// RequiresSecondary reports whether the mode cannot work without a
// secondary endpoint.
func (m LocationMode) RequiresSecondary() bool {
	return m == SecondaryOnly
}

// NextTarget picks the location for the attempt after the one described
// by rc, honoring the mode's routing rules and the availability flags.
// The second return value is false when no permitted location remains
// available, in which case retrying is pointless.
func NextTarget(rc Context) (Location, bool) {
	switch rc.Mode {
	case PrimaryOnly:
		return Primary, rc.PrimaryAvailable
	case SecondaryOnly:
		return Secondary, rc.SecondaryAvailable
	}

	// Alternating modes prefer the location that did not just fail.
	other := rc.Location.Other()
	if available(rc, other) {
		return other, true
	}
	if available(rc, rc.Location) {
		return rc.Location, true
	}
	return rc.Location, false
}

func available(rc Context, l Location) bool {
	if l == Primary {
		return rc.PrimaryAvailable
	}
	return rc.SecondaryAvailable
}
