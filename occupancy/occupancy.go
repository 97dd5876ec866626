// Package occupancy implements the per-voxel state of a Bayesian generalized kernel (BGK) octree map.
// Each node holds a Beta posterior over occupancy, a color accumulator and a Dirichlet-style semantic
// accumulator, all updated in closed form from kernel-weighted evidence computed by the map builder.
package occupancy

import (
	"github.com/pkg/errors"
)

// Each node is classified as free, occupied or unknown from its occupancy posterior. Pruned is set
// only by the compression pass once a node's subtree has been collapsed into its parent, and it is
// never left again.
const (
	Free = State(iota)
	Occupied
	Unknown
	Pruned
)

// State represents the classification of a node. The numeric value is the persisted discriminant.
type State uint8

// String returns the upper case name of the state.
func (s State) String() string {
	switch s {
	case Free:
		return "FREE"
	case Occupied:
		return "OCCUPIED"
	case Unknown:
		return "UNKNOWN"
	case Pruned:
		return "PRUNED"
	}
	return "INVALID"
}

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	return s <= Pruned
}

// transition is the only way a node's state changes. Once pruned, every transition is refused.
func (s State) transition(next State) State {
	if s == Pruned {
		return Pruned
	}
	return next
}

var (
	// ErrPruned is returned when an update is attempted on a pruned node.
	ErrPruned = errors.New("node has been pruned")

	// ErrNegativeEvidence is returned when occupancy or appearance evidence is negative or not finite.
	ErrNegativeEvidence = errors.New("evidence must be finite and non-negative")

	// ErrEvidenceOverflow is returned when accumulated occupancy evidence would exceed the float32 range.
	ErrEvidenceOverflow = errors.New("accumulated evidence is out of range")

	// ErrDimensionMismatch is returned when an evidence vector does not match the accumulator size.
	ErrDimensionMismatch = errors.New("evidence dimension does not match accumulator size")

	// ErrClassCountMismatch is returned when a persisted node was written with a different number of
	// semantic classes than the current model is configured for.
	ErrClassCountMismatch = errors.New("semantic class count does not match model")

	// ErrNotCollapsible is returned by Collapse when the given children are not all equal.
	ErrNotCollapsible = errors.New("children are not collapsible")
)

// Updater is the narrow view of a node the map builder is given. It can fuse evidence and read
// the resulting classification but cannot reach node internals.
type Updater interface {
	UpdateOccupancy(ybar, kbar float64) error
	UpdateAppearance(color, semantics []float64, overwrite bool) error
	Probability() float64
	Variance() float64
	State() State
	Label() int
}

// Compressor is the view of a node the compression pass needs.
type Compressor interface {
	State() State
	Prune()
}

var (
	_ Updater    = (*Node)(nil)
	_ Compressor = (*Node)(nil)
)
