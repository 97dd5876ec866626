package occupancy

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const colorChannels = 3

// Node is the inference state of one voxel. alpha and beta are the kernel densities of the occupied
// and free class and parameterize a Beta posterior over occupancy. The node is not safe for
// concurrent use; the map builder must give each voxel a single writer per batch.
type Node struct {
	params *Params

	alpha float32
	beta  float32
	state State

	color     FeatureArray
	semantics FeatureArray

	classified bool
}

// UpdateOccupancy performs the exact Beta-Bernoulli update with kernel-weighted evidence for (ybar)
// and against (kbar) occupancy, then reclassifies the node.
func (n *Node) UpdateOccupancy(ybar, kbar float64) error {
	if n.state == Pruned {
		return ErrPruned
	}
	if !validEvidence(ybar) || !validEvidence(kbar) {
		return errors.Wrapf(ErrNegativeEvidence, "got (%v, %v)", ybar, kbar)
	}
	alpha, beta := float64(n.alpha)+ybar, float64(n.beta)+kbar
	if alpha > math.MaxFloat32 || beta > math.MaxFloat32 {
		return errors.Wrapf(ErrEvidenceOverflow, "got (%v, %v)", ybar, kbar)
	}
	n.alpha = float32(alpha)
	n.beta = float32(beta)
	n.classify()
	return nil
}

// UpdateAppearance fuses color and semantic evidence. By default both are accumulated onto the
// existing pseudo-counts; with overwrite they replace them. Both vectors are validated before either
// accumulator is modified.
func (n *Node) UpdateAppearance(color, semantics []float64, overwrite bool) error {
	if n.state == Pruned {
		return ErrPruned
	}
	if err := n.color.check(color); err != nil {
		return errors.Wrap(err, "color")
	}
	if err := n.semantics.check(semantics); err != nil {
		return errors.Wrap(err, "semantics")
	}
	if overwrite {
		copy(n.color.values, color)
		copy(n.semantics.values, semantics)
	} else {
		floats.Add(n.color.values, color)
		floats.Add(n.semantics.values, semantics)
	}
	n.classified = true
	return nil
}

func (n *Node) posterior() distuv.Beta {
	return distuv.Beta{Alpha: float64(n.alpha), Beta: float64(n.beta)}
}

// Probability returns the posterior mean probability of occupancy.
func (n *Node) Probability() float64 {
	return n.posterior().Mean()
}

// Variance returns the posterior variance of occupancy. It is at most 0.25 and shrinks as evidence
// accumulates.
func (n *Node) Variance() float64 {
	return n.posterior().Variance()
}

func (n *Node) classify() {
	p, v := n.Probability(), n.Variance()
	next := Unknown
	switch {
	case v > n.params.VarianceThreshold:
	case p >= n.params.OccupiedThreshold:
		next = Occupied
	case p <= n.params.FreeThreshold:
		next = Free
	}
	n.state = n.state.transition(next)
}

// State returns the current classification.
func (n *Node) State() State {
	return n.state
}

// Prune marks the node as collapsed into its parent. It cannot be undone.
func (n *Node) Prune() {
	n.state = n.state.transition(Pruned)
}

// Equal reports whether two nodes may be merged: both must be FREE or both OCCUPIED. UNKNOWN and
// PRUNED nodes are not equal to anything, themselves included.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return false
	}
	if n.state != Free && n.state != Occupied {
		return false
	}
	return n.state == other.state
}

// Alpha returns the accumulated occupied evidence including the prior.
func (n *Node) Alpha() float32 {
	return n.alpha
}

// Beta returns the accumulated free evidence including the prior.
func (n *Node) Beta() float32 {
	return n.beta
}

// Classified reports whether the node has received appearance evidence.
func (n *Node) Classified() bool {
	return n.classified
}

// Color returns a copy of the color accumulator.
func (n *Node) Color() FeatureArray {
	return n.color.clone()
}

// Semantics returns a copy of the semantic accumulator.
func (n *Node) Semantics() FeatureArray {
	return n.semantics.clone()
}

// RGB returns the color accumulator as a color, with each channel clamped to [0, 1].
func (n *Node) RGB() colorful.Color {
	return colorful.Color{R: n.color.At(0), G: n.color.At(1), B: n.color.At(2)}.Clamped()
}

// Label returns the dominant semantic class. Ties resolve to the lowest class index, so a node that
// has never been observed reports class 0.
func (n *Node) Label() int {
	return n.semantics.MaxIndex()
}

// SemanticDistribution returns the normalized class probabilities.
func (n *Node) SemanticDistribution() []float64 {
	return n.semantics.Normalized()
}

// Clone returns a deep copy of the node that shares its parameters.
func (n *Node) Clone() *Node {
	return &Node{
		params:     n.params,
		alpha:      n.alpha,
		beta:       n.beta,
		state:      n.state,
		color:      n.color.clone(),
		semantics:  n.semantics.clone(),
		classified: n.classified,
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s p=%.4f var=%.6f alpha=%g beta=%g label=%d color=%s",
		n.state, n.Probability(), n.Variance(), n.alpha, n.beta, n.Label(), n.RGB().Hex())
}
