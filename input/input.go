// Package input produces per-tick targets for creatures that are not
// steered by the pointer.
package input

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/kinematics"
)

// Source yields the input snapshot for a tick.
type Source interface {
	Next(tick int) kinematics.Input
}

// Fixed always targets the same point.
type Fixed struct {
	Point r2.Vec
	Idle  bool
}

func (f Fixed) Next(int) kinematics.Input {
	return kinematics.Input{Target: f.Point, Idle: f.Idle}
}

// Wander drifts a target around Anchor along two decorrelated noise
// tracks. The target stays within Radius of Anchor.
type Wander struct {
	Anchor    r2.Vec
	Radius    float64
	Frequency float64

	noise opensimplex.Noise
}

// NewWander seeds the noise field.
func NewWander(anchor r2.Vec, radius, frequency float64, seed int64) *Wander {
	return &Wander{
		Anchor:    anchor,
		Radius:    radius,
		Frequency: frequency,
		noise:     opensimplex.New(seed),
	}
}

func (w *Wander) Next(tick int) kinematics.Input {
	t := float64(tick) * w.Frequency
	// Offset rows keep the axes independent.
	x := w.noise.Eval2(t, 0)
	y := w.noise.Eval2(t, 100)
	off := r2.Vec{X: x, Y: y}
	if n := r2.Norm(off); n > 1 {
		off = r2.Scale(1/n, off)
	}
	return kinematics.Input{Target: r2.Add(w.Anchor, r2.Scale(w.Radius, off))}
}

// Waypoints cycles through points, advancing whenever the tracked position
// comes within Tolerance of the current one.
type Waypoints struct {
	Points    []r2.Vec
	Tolerance float64

	// Reached counts waypoints visited so far.
	Reached int
	current int
}

// Track reports the creature position; call before Next each tick.
func (w *Waypoints) Track(pos r2.Vec) {
	if len(w.Points) == 0 {
		return
	}
	if kinematics.Dist(pos, w.Points[w.current]) <= w.Tolerance {
		w.Reached++
		w.current = (w.current + 1) % len(w.Points)
	}
}

func (w *Waypoints) Next(int) kinematics.Input {
	if len(w.Points) == 0 {
		return kinematics.Input{Idle: true}
	}
	return kinematics.Input{Target: w.Points[w.current]}
}

// Ring returns n points evenly spaced on a circle, starting at angle phase.
func Ring(center r2.Vec, radius float64, n int, phase float64) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = r2.Add(center, r2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
	}
	return pts
}
