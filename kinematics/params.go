package kinematics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidParams is wrapped by every construction-time validation error.
var ErrInvalidParams = errors.New("invalid parameters")

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SegmentParams describes one rigid link.
type SegmentParams struct {
	Size      float64 // distance from parent
	Angle     float64 // rest angle relative to parent
	Range     float64 // total angular slack around Angle
	Stiffness float64 // relaxation divisor, >= 1
}

// Validate checks the parameters once at construction.
func (p SegmentParams) Validate() error {
	if !finite(p.Size, p.Angle, p.Range, p.Stiffness) {
		return fmt.Errorf("segment: non-finite value: %w", ErrInvalidParams)
	}
	if p.Size < 0 {
		return fmt.Errorf("segment: size %v < 0: %w", p.Size, ErrInvalidParams)
	}
	if p.Range < 0 {
		return fmt.Errorf("segment: range %v < 0: %w", p.Range, ErrInvalidParams)
	}
	if p.Stiffness < 1 {
		return fmt.Errorf("segment: stiffness %v < 1: %w", p.Stiffness, ErrInvalidParams)
	}
	return nil
}

// LimbParams describes an IK chain. Length below 1 is treated as 1.
type LimbParams struct {
	Length int     // number of segments walked up from the tip
	Speed  float64 // maximum tip travel per tick
}

// Validate checks the parameters once at construction.
func (p LimbParams) Validate() error {
	if !finite(p.Speed) || p.Speed < 0 {
		return fmt.Errorf("limb: speed %v: %w", p.Speed, ErrInvalidParams)
	}
	return nil
}

// LegParams describes a stepping leg.
type LegParams struct {
	LimbParams
	// Reach is the neutral stride radius from the hip. Zero derives it
	// from the constructed pose (90% of the hip-to-tip distance).
	Reach float64
}

// Validate checks the parameters once at construction.
func (p LegParams) Validate() error {
	if err := p.LimbParams.Validate(); err != nil {
		return err
	}
	if !finite(p.Reach) || p.Reach < 0 {
		return fmt.Errorf("leg: reach %v: %w", p.Reach, ErrInvalidParams)
	}
	return nil
}

// BodyParams holds the creature's start pose and motion coefficients.
type BodyParams struct {
	Start r2.Vec
	Angle float64

	FAccel  float64 // forward drive per tick
	FFric   float64 // subtractive forward friction
	FRes    float64 // multiplicative forward resistance in [0, 1]
	FThresh float64 // distance to target below which drive stops

	RAccel  float64 // rotational drive per tick
	RFric   float64 // rotational dead zone
	RRes    float64 // multiplicative rotational resistance in [0, 1]
	RThresh float64 // bearing error tolerated before turning
}

// Validate checks the parameters once at construction.
func (p BodyParams) Validate() error {
	if !finite(p.Start.X, p.Start.Y, p.Angle, p.FAccel, p.FFric, p.FRes, p.FThresh,
		p.RAccel, p.RFric, p.RRes, p.RThresh) {
		return fmt.Errorf("body: non-finite value: %w", ErrInvalidParams)
	}
	if p.FRes < 0 || p.FRes > 1 || p.RRes < 0 || p.RRes > 1 {
		return fmt.Errorf("body: resistance outside [0, 1]: %w", ErrInvalidParams)
	}
	if p.FAccel < 0 || p.FFric < 0 || p.FThresh < 0 ||
		p.RAccel < 0 || p.RFric < 0 || p.RThresh < 0 {
		return fmt.Errorf("body: negative coefficient: %w", ErrInvalidParams)
	}
	return nil
}

// Input is the per-tick snapshot supplied by the input collaborator.
type Input struct {
	Target r2.Vec
	// Idle holds the body in place (reduced motion); limbs still receive
	// the target.
	Idle bool
}
