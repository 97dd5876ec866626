package occupancy

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Model owns the frozen Params of a map and creates its nodes. Every node of one map should come
// from the same Model so that all of them classify against the same thresholds.
type Model struct {
	logger golog.Logger
	params *Params
}

// NewModel validates params and freezes a private copy of them.
func NewModel(params Params, logger golog.Logger) (*Model, error) {
	if err := params.Validate("occupancy"); err != nil {
		return nil, err
	}
	frozen := params
	logger.Debugw("created occupancy model", "params", frozen.String())
	return &Model{logger: logger, params: &frozen}, nil
}

// Params returns a copy of the model's parameters.
func (m *Model) Params() Params {
	return *m.params
}

// NumClasses returns the length of every node's semantic accumulator.
func (m *Model) NumClasses() int {
	return m.params.NumClasses
}

// NewNode returns a node at the prior: UNKNOWN, zero color and uniform semantics.
func (m *Model) NewNode() *Node {
	return &Node{
		params:    m.params,
		alpha:     float32(m.params.PriorAlpha),
		beta:      float32(m.params.PriorBeta),
		state:     Unknown,
		color:     NewFeatureArray(colorChannels, false),
		semantics: NewFeatureArray(m.params.NumClasses, true),
	}
}

// NewNodeWithCounts returns a node with the given Beta parameters, classified against the model's
// thresholds.
func (m *Model) NewNodeWithCounts(alpha, beta float32) (*Node, error) {
	if !validCount(alpha) || !validCount(beta) {
		return nil, errors.Errorf("alpha and beta must be positive, got (%v, %v)", alpha, beta)
	}
	n := m.NewNode()
	n.alpha = alpha
	n.beta = beta
	n.classify()
	return n, nil
}

// CanCollapse reports whether every child is equal to the first one. Since equality only holds for
// FREE and OCCUPIED nodes, a set containing an UNKNOWN or PRUNED child never collapses.
func CanCollapse(children []*Node) bool {
	if len(children) == 0 {
		return false
	}
	return lo.EveryBy(children, children[0].Equal)
}

// Collapse replaces a set of equal children with a single node. The returned node is a copy of the
// first child and the children are pruned. Nothing is changed if the children cannot be collapsed.
func (m *Model) Collapse(children []*Node) (*Node, error) {
	if !CanCollapse(children) {
		return nil, ErrNotCollapsible
	}
	parent := children[0].Clone()
	parent.params = m.params
	for _, child := range children {
		child.Prune()
	}
	m.logger.Debugw("collapsed children", "count", len(children), "state", parent.state.String())
	return parent, nil
}

func validCount(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 1)
}
