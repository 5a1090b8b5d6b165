// Package renderer turns creature draw primitives into raylib lines or
// terminal cells.
package renderer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Path is a Canvas-shaped builder that flattens the current path into
// polylines. Arcs are approximated by chords.
type Path struct {
	// Segments is the number of chords for a full circle.
	Segments int

	subpaths [][]r2.Vec
}

func (p *Path) MoveTo(pt r2.Vec) {
	p.subpaths = append(p.subpaths, []r2.Vec{pt})
}

func (p *Path) LineTo(pt r2.Vec) {
	if len(p.subpaths) == 0 {
		p.MoveTo(pt)
		return
	}
	last := len(p.subpaths) - 1
	p.subpaths[last] = append(p.subpaths[last], pt)
}

// Arc sweeps clockwise on screen (increasing angle with y down) from start
// to end, joining the current subpath to the arc's first point.
func (p *Path) Arc(center r2.Vec, radius, start, end float64) {
	sweep := end - start
	if sweep < 0 {
		sweep = math.Mod(sweep, 2*math.Pi) + 2*math.Pi
	}
	sweep = math.Min(sweep, 2*math.Pi)

	segs := p.Segments
	if segs < 4 {
		segs = 16
	}
	n := int(math.Ceil(sweep / (2 * math.Pi) * float64(segs)))
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		p.LineTo(r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)})
	}
}

// Take returns the flattened subpaths and clears the path.
func (p *Path) Take() [][]r2.Vec {
	s := p.subpaths
	p.subpaths = nil
	return s
}
