// Package kinematics implements the procedural animation core: a tree of
// rigid segments, a single-goal inverse kinematics solver for limb chains,
// a planted/swinging gait state machine for legs and the body controller
// that chases a target point and advances everything once per tick.
package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const twoPi = 2 * math.Pi

// wrapNear returns the representative of angle modulo 2π that lies in
// (center-π, center+π].
func wrapNear(angle, center float64) float64 {
	return angle - twoPi*math.Ceil((angle-center)/twoPi-0.5)
}

// WrapAngle wraps an angle to (-π, π].
func WrapAngle(angle float64) float64 {
	return wrapNear(angle, 0)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sign returns +1 for positive values and -1 otherwise.
func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}

// polar returns the vector of length r pointing along angle.
func polar(angle, r float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// angleOf returns the heading of v. The zero vector has heading 0.
func angleOf(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// direction returns the unit vector from -> to and the distance between
// them. Coincident points yield the zero vector.
func direction(from, to r2.Vec) (r2.Vec, float64) {
	d := r2.Sub(to, from)
	n := r2.Norm(d)
	if n == 0 {
		return r2.Vec{}, 0
	}
	return r2.Scale(1/n, d), n
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
