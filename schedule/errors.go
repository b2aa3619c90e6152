package schedule

import "fmt"

// EditErrorKind classifies why an edit operation could not preserve the
// schedule's invariants. A tagged variant rather than a bare string error,
// so callers can branch on the failure class; every EditError still renders
// a descriptive message via Error().
type EditErrorKind uint8

const (
	// InvariantBroken indicates the edit would leave a structural invariant
	// (tour shape, formation ordering, etc.) unsatisfied.
	InvariantBroken EditErrorKind = iota
	// Incompatible indicates a vehicle type is not permitted on a node it
	// would need to cover.
	Incompatible
	// DepotFull indicates a depot has no remaining capacity for a vehicle.
	DepotFull
	// Conflict indicates the edit is only possible if a Path of existing
	// tour nodes is first removed; the caller may retry after accepting or
	// rejecting the conflict.
	Conflict
)

func (k EditErrorKind) String() string {
	switch k {
	case InvariantBroken:
		return "InvariantBroken"
	case Incompatible:
		return "Incompatible"
	case DepotFull:
		return "DepotFull"
	case Conflict:
		return "Conflict"
	default:
		return "Unknown"
	}
}

// EditError is the error type every schedule edit operation returns on
// failure. ConflictPath is populated only when Kind == Conflict.
type EditError struct {
	Kind         EditErrorKind
	Message      string
	ConflictPath []NodeRange
}

// NodeRange names a contiguous segment of a vehicle's existing tour that
// would need to be removed to admit a conflicting edit — the minimal
// conflict path AddPathToVehicleTour reports back to its caller.
type NodeRange struct {
	Vehicle    uint32
	Start, End int
}

func (e *EditError) Error() string {
	if e.Kind == Conflict {
		return fmt.Sprintf("schedule: %s: %s (conflict spans %d segment(s))", e.Kind, e.Message, len(e.ConflictPath))
	}
	return fmt.Sprintf("schedule: %s: %s", e.Kind, e.Message)
}

func newInvariantBroken(format string, args ...interface{}) *EditError {
	return &EditError{Kind: InvariantBroken, Message: fmt.Sprintf(format, args...)}
}

func newIncompatible(format string, args ...interface{}) *EditError {
	return &EditError{Kind: Incompatible, Message: fmt.Sprintf(format, args...)}
}

func newDepotFull(format string, args ...interface{}) *EditError {
	return &EditError{Kind: DepotFull, Message: fmt.Sprintf(format, args...)}
}
