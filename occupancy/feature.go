package occupancy

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// FeatureArray is a fixed-size accumulator of kernel-weighted pseudo-counts. Nodes use one for color
// (three channels) and one for semantics (one slot per class).
type FeatureArray struct {
	values []float64
}

// NewFeatureArray returns an accumulator with size slots. When uniform is set every slot starts at
// 1/size, otherwise all slots start at zero.
func NewFeatureArray(size int, uniform bool) FeatureArray {
	values := make([]float64, size)
	if uniform && size > 0 {
		for i := range values {
			values[i] = 1 / float64(size)
		}
	}
	return FeatureArray{values: values}
}

// Len returns the number of slots.
func (fa FeatureArray) Len() int {
	return len(fa.values)
}

// At returns the pseudo-count in slot i.
func (fa FeatureArray) At(i int) float64 {
	return fa.values[i]
}

// Values returns a copy of the pseudo-counts.
func (fa FeatureArray) Values() []float64 {
	out := make([]float64, len(fa.values))
	copy(out, fa.values)
	return out
}

// Add accumulates obs into the array elementwise. Nothing is changed if obs is invalid.
func (fa FeatureArray) Add(obs []float64) error {
	if err := fa.check(obs); err != nil {
		return err
	}
	floats.Add(fa.values, obs)
	return nil
}

// Set replaces the pseudo-counts with obs. Nothing is changed if obs is invalid.
func (fa FeatureArray) Set(obs []float64) error {
	if err := fa.check(obs); err != nil {
		return err
	}
	copy(fa.values, obs)
	return nil
}

// Normalized returns the pseudo-counts divided by their sum, i.e. the mean of the Dirichlet they
// parameterize. An all-zero array normalizes to the uniform distribution.
func (fa FeatureArray) Normalized() []float64 {
	out := fa.Values()
	if len(out) == 0 {
		return out
	}
	sum := floats.Sum(out)
	if sum <= 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	floats.Scale(1/sum, out)
	return out
}

// MaxIndex returns the index of the largest pseudo-count. Ties resolve to the lowest index.
// It returns -1 for an empty array.
func (fa FeatureArray) MaxIndex() int {
	if len(fa.values) == 0 {
		return -1
	}
	return floats.MaxIdx(fa.values)
}

// Equal reports whether both arrays hold bit-identical pseudo-counts.
func (fa FeatureArray) Equal(other FeatureArray) bool {
	if len(fa.values) != len(other.values) {
		return false
	}
	for i, v := range fa.values {
		if math.Float64bits(v) != math.Float64bits(other.values[i]) {
			return false
		}
	}
	return true
}

func (fa FeatureArray) clone() FeatureArray {
	return FeatureArray{values: fa.Values()}
}

func (fa FeatureArray) check(obs []float64) error {
	if len(obs) != len(fa.values) {
		return errors.Wrapf(ErrDimensionMismatch, "got %d values, want %d", len(obs), len(fa.values))
	}
	for i, v := range obs {
		if !validEvidence(v) {
			return errors.Wrapf(ErrNegativeEvidence, "slot %d has value %v", i, v)
		}
	}
	return nil
}

func validEvidence(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
