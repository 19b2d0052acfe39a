package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable force factor.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable force factors.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "attraction", Path: "forces.attraction", Min: 0.1, Max: 5.0, Default: 1.0},
			{Name: "repulsion", Path: "forces.repulsion", Min: 1e3, Max: 1e5, Default: 1e4},
			{Name: "alignment", Path: "forces.alignment", Min: 0.05, Max: 2.0, Default: 0.5},
			{Name: "predator_attraction", Path: "forces.predator_attraction", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "predator_repulsion", Path: "forces.predator_repulsion", Min: 1e5, Max: 1e7, Default: 1e6},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into the forces section.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Forces.Attraction = c[0]
	cfg.Forces.Repulsion = c[1]
	cfg.Forces.Alignment = c[2]
	cfg.Forces.PredatorAttraction = c[3]
	cfg.Forces.PredatorRepulsion = c[4]
}

// ExtractFromConfig reads the current values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Forces.Attraction,
		cfg.Forces.Repulsion,
		cfg.Forces.Alignment,
		cfg.Forces.PredatorAttraction,
		cfg.Forces.PredatorRepulsion,
	}
}
