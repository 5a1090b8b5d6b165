package kinematics

import "gonum.org/v1/gonum/spatial/r2"

// Canvas receives draw primitives. Arc follows the 2D-canvas convention:
// it continues the current path from the arc's start point.
type Canvas interface {
	MoveTo(p r2.Vec)
	LineTo(p r2.Vec)
	Arc(center r2.Vec, radius, start, end float64)
	Stroke()
}

// Op identifies a primitive.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpArc
	OpStroke
)

// Primitive is one recorded draw call.
type Primitive struct {
	Op         Op
	P          r2.Vec // point, or arc centre
	Radius     float64
	Start, End float64
}

// Recorder is a Canvas that keeps the ordered primitive list of a frame.
type Recorder struct {
	Prims []Primitive
}

func (r *Recorder) MoveTo(p r2.Vec) {
	r.Prims = append(r.Prims, Primitive{Op: OpMoveTo, P: p})
}

func (r *Recorder) LineTo(p r2.Vec) {
	r.Prims = append(r.Prims, Primitive{Op: OpLineTo, P: p})
}

func (r *Recorder) Arc(center r2.Vec, radius, start, end float64) {
	r.Prims = append(r.Prims, Primitive{Op: OpArc, P: center, Radius: radius, Start: start, End: end})
}

func (r *Recorder) Stroke() {
	r.Prims = append(r.Prims, Primitive{Op: OpStroke})
}

// Reset clears the recorded frame, keeping capacity.
func (r *Recorder) Reset() {
	r.Prims = r.Prims[:0]
}

// Count returns how many primitives of the given kind were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, p := range r.Prims {
		if p.Op == op {
			n++
		}
	}
	return n
}

// Replay sends the recorded frame to another canvas.
func (r *Recorder) Replay(cv Canvas) {
	for _, p := range r.Prims {
		switch p.Op {
		case OpMoveTo:
			cv.MoveTo(p.P)
		case OpLineTo:
			cv.LineTo(p.P)
		case OpArc:
			cv.Arc(p.P, p.Radius, p.Start, p.End)
		case OpStroke:
			cv.Stroke()
		}
	}
}
