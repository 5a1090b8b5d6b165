package main

import "github.com/pthm-cable/critter/config"

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the body coefficients under search.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of body parameters. FThresh is
// left out: it sets the arrival radius the fitness depends on.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "f_accel", Path: "body.f_accel", Min: 1, Max: 30, Default: 12},
			{Name: "f_fric", Path: "body.f_fric", Min: 0, Max: 5, Default: 1},
			{Name: "f_res", Path: "body.f_res", Min: 0.05, Max: 0.95, Default: 0.5},
			{Name: "r_accel", Path: "body.r_accel", Min: 0.05, Max: 2, Default: 0.5},
			{Name: "r_fric", Path: "body.r_fric", Min: 0, Max: 0.5, Default: 0.085},
			{Name: "r_res", Path: "body.r_res", Min: 0.05, Max: 0.95, Default: 0.5},
			{Name: "r_thresh", Path: "body.r_thresh", Min: 0, Max: 1, Default: 0.3},
			{Name: "size_accel", Path: "body.size_accel", Min: 1, Max: 30, Default: 10},
			{Name: "size_fric", Path: "body.size_fric", Min: 0, Max: 6, Default: 2},
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

// fields maps each spec, in order, to its config field.
func fields(cfg *config.Config) []*float64 {
	b := &cfg.Body
	return []*float64{
		&b.FAccel, &b.FFric, &b.FRes,
		&b.RAccel, &b.RFric, &b.RRes, &b.RThresh,
		&b.SizeAccel, &b.SizeFric,
	}
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, f := range fields(cfg) {
		*f = clamped[i]
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	fs := fields(cfg)
	v := make([]float64, len(fs))
	for i, f := range fs {
		v[i] = *f
	}
	return v
}

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	Reached   float64 `csv:"reached_mean"`
	FAccel    float64 `csv:"f_accel"`
	FFric     float64 `csv:"f_fric"`
	FRes      float64 `csv:"f_res"`
	RAccel    float64 `csv:"r_accel"`
	RFric     float64 `csv:"r_fric"`
	RRes      float64 `csv:"r_res"`
	RThresh   float64 `csv:"r_thresh"`
	SizeAccel float64 `csv:"size_accel"`
	SizeFric  float64 `csv:"size_fric"`
}

// NewEvalRecord builds a log row from clamped parameter values.
func NewEvalRecord(eval int, fitness, reached float64, v []float64) EvalRecord {
	return EvalRecord{
		Eval: eval, Fitness: fitness, Reached: reached,
		FAccel: v[0], FFric: v[1], FRes: v[2],
		RAccel: v[3], RFric: v[4], RRes: v[5], RThresh: v[6],
		SizeAccel: v[7], SizeFric: v[8],
	}
}
