package occupancy

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Params are the process-wide inference parameters shared by every node of a map. They are fixed when
// a Model is created; nodes only ever see a read-only copy.
type Params struct {
	// SignalVariance is the kernel signal variance (sf2) the map builder scales evidence by.
	SignalVariance float64 `json:"signal_variance"`
	// LengthScale is the kernel length-scale (ell) in meters.
	LengthScale float64 `json:"length_scale"`

	PriorAlpha float64 `json:"prior_alpha"`
	PriorBeta  float64 `json:"prior_beta"`

	FreeThreshold     float64 `json:"free_threshold"`
	OccupiedThreshold float64 `json:"occupied_threshold"`
	// VarianceThreshold is the largest posterior variance at which a node may commit to FREE or OCCUPIED.
	VarianceThreshold float64 `json:"variance_threshold"`

	NumClasses int `json:"num_classes"`
}

// DefaultParams returns small symmetric priors and thresholds that never gate on variance.
func DefaultParams() Params {
	return Params{
		SignalVariance:    1.0,
		LengthScale:       0.2,
		PriorAlpha:        0.001,
		PriorBeta:         0.001,
		FreeThreshold:     0.3,
		OccupiedThreshold: 0.7,
		VarianceThreshold: 1000,
		NumClasses:        1,
	}
}

// ParamsFromJSON overlays the JSON object in data onto DefaultParams and validates the result.
func ParamsFromJSON(data []byte) (*Params, error) {
	params := DefaultParams()
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, errors.Wrap(err, "error parsing occupancy params")
	}
	if err := params.Validate("occupancy"); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate ensures all parameters are usable. Every invalid field is reported.
func (p *Params) Validate(path string) error {
	var err error
	if p.SignalVariance <= 0 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("signal_variance must be positive, got %v", p.SignalVariance)))
	}
	if p.LengthScale <= 0 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("length_scale must be positive, got %v", p.LengthScale)))
	}
	if p.PriorAlpha <= 0 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("prior_alpha must be positive, got %v", p.PriorAlpha)))
	}
	if p.PriorBeta <= 0 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("prior_beta must be positive, got %v", p.PriorBeta)))
	}
	if p.FreeThreshold < 0 || p.FreeThreshold > 1 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("free_threshold must be in [0, 1], got %v", p.FreeThreshold)))
	}
	if p.OccupiedThreshold < 0 || p.OccupiedThreshold > 1 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("occupied_threshold must be in [0, 1], got %v", p.OccupiedThreshold)))
	}
	if p.FreeThreshold > p.OccupiedThreshold {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("free_threshold (%v) cannot be above occupied_threshold (%v)",
				p.FreeThreshold, p.OccupiedThreshold)))
	}
	if p.VarianceThreshold < 0 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("variance_threshold must be non-negative, got %v", p.VarianceThreshold)))
	}
	if p.NumClasses == 0 {
		err = multierr.Append(err, newConfigValidationFieldRequiredError(path, "num_classes"))
	} else if p.NumClasses < 0 {
		err = multierr.Append(err, newConfigValidationError(path,
			errors.Errorf("num_classes must be positive, got %d", p.NumClasses)))
	}
	return err
}

// String returns a compact representation for logs.
func (p *Params) String() string {
	return fmt.Sprintf("sf2=%g ell=%g prior=(%g, %g) free<=%g occupied>=%g var<=%g classes=%d",
		p.SignalVariance, p.LengthScale, p.PriorAlpha, p.PriorBeta,
		p.FreeThreshold, p.OccupiedThreshold, p.VarianceThreshold, p.NumClasses)
}

func newConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

func newConfigValidationFieldRequiredError(path, field string) error {
	return newConfigValidationError(path, errors.Errorf("%q is required", field))
}
