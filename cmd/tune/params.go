package main

import (
	"github.com/pthm-cable/crawl/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // column name in the log
	Path string  // YAML path
	Min  float64 // lower bound
	Max  float64 // upper bound

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all tuned parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the gait and grouping parameters the tuner searches.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Gait
			{Name: "step_threshold", Path: "gait.step_threshold", Min: 0.1, Max: 0.6,
				get: func(c *config.Config) float64 { return c.Gait.StepThreshold },
				set: func(c *config.Config, v float64) { c.Gait.StepThreshold = v }},
			{Name: "emergency_multiplier", Path: "gait.emergency_multiplier", Min: 2, Max: 8,
				get: func(c *config.Config) float64 { return c.Gait.EmergencyMultiplier },
				set: func(c *config.Config, v float64) { c.Gait.EmergencyMultiplier = v }},
			{Name: "step_duration", Path: "gait.step_duration", Min: 0.03, Max: 0.2,
				get: func(c *config.Config) float64 { return c.Gait.StepDuration },
				set: func(c *config.Config, v float64) { c.Gait.StepDuration = v }},
			{Name: "stride", Path: "gait.stride", Min: 0.1, Max: 0.6,
				get: func(c *config.Config) float64 { return c.Gait.Stride },
				set: func(c *config.Config, v float64) { c.Gait.Stride = v }},
			{Name: "stand_height", Path: "gait.stand_height", Min: 0.3, Max: 0.85,
				get: func(c *config.Config) float64 { return c.Gait.StandHeight },
				set: func(c *config.Config, v float64) { c.Gait.StandHeight = v }},
			// Behavior
			{Name: "flee_multiplier", Path: "behavior.flee_multiplier", Min: 1, Max: 3.5,
				get: func(c *config.Config) float64 { return c.Behavior.FleeMultiplier },
				set: func(c *config.Config, v float64) { c.Behavior.FleeMultiplier = v }},
			// Grouping
			{Name: "join_radius", Path: "group.join_radius", Min: 15, Max: 90,
				get: func(c *config.Config) float64 { return c.Group.JoinRadius },
				set: func(c *config.Config, v float64) { c.Group.JoinRadius = v }},
			{Name: "scan_interval", Path: "group.scan_interval", Min: 0.1, Max: 2,
				get: func(c *config.Config) float64 { return c.Group.ScanInterval },
				set: func(c *config.Config, v float64) { c.Group.ScanInterval = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
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
		clamped[i] = max(spec.Min, min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		values[i] = spec.get(cfg)
	}
	return values
}
