package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

// CellSetter is the part of tcell.Screen the terminal canvas writes to.
type CellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// TermCanvas rasterises creature strokes into terminal cells. World point
// Origin maps to the top-left cell; each cell covers CellSize world units
// across and twice that down, matching the usual glyph aspect.
type TermCanvas struct {
	Screen   CellSetter
	Origin   r2.Vec
	CellSize float64
	Style    tcell.Style
	Rune     rune

	path Path
}

// NewTermCanvas creates a canvas over the screen.
func NewTermCanvas(screen CellSetter, cellSize float64, style tcell.Style) *TermCanvas {
	return &TermCanvas{Screen: screen, CellSize: cellSize, Style: style, Rune: '•', path: Path{Segments: 8}}
}

func (c *TermCanvas) MoveTo(p r2.Vec) { c.path.MoveTo(p) }
func (c *TermCanvas) LineTo(p r2.Vec) { c.path.LineTo(p) }

func (c *TermCanvas) Arc(center r2.Vec, radius, start, end float64) {
	c.path.Arc(center, radius, start, end)
}

// Stroke rasterises and clears the current path.
func (c *TermCanvas) Stroke() {
	w, h := c.Screen.Size()
	plot := func(x, y int) {
		if x >= 0 && y >= 0 && x < w && y < h {
			c.Screen.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
	for _, sub := range c.path.Take() {
		if len(sub) == 1 {
			x, y := c.Cell(sub[0])
			plot(x, y)
		}
		for i := 1; i < len(sub); i++ {
			x0, y0 := c.Cell(sub[i-1])
			x1, y1 := c.Cell(sub[i])
			Line(x0, y0, x1, y1, plot)
		}
	}
}

// Cell maps a world point to its cell.
func (c *TermCanvas) Cell(p r2.Vec) (x, y int) {
	size := c.CellSize
	if size <= 0 {
		size = 1
	}
	return int(math.Floor((p.X - c.Origin.X) / size)), int(math.Floor((p.Y - c.Origin.Y) / (2 * size)))
}

// World maps the centre of a cell back to world space.
func (c *TermCanvas) World(x, y int) r2.Vec {
	size := c.CellSize
	if size <= 0 {
		size = 1
	}
	return r2.Vec{
		X: c.Origin.X + (float64(x)+0.5)*size,
		Y: c.Origin.Y + (float64(y)+0.5)*2*size,
	}
}

// CenterOn moves Origin so p lands in the middle of the screen.
func (c *TermCanvas) CenterOn(p r2.Vec) {
	w, h := c.Screen.Size()
	c.Origin = r2.Vec{
		X: p.X - float64(w)/2*c.CellSize,
		Y: p.Y - float64(h)/2*2*c.CellSize,
	}
}

// Line calls plot for every cell on the segment, endpoints included.
func Line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
