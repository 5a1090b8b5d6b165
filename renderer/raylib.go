package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/camera"
)

// RaylibCanvas strokes creature primitives in world space through a camera.
// Must be used between rl.BeginDrawing and rl.EndDrawing.
type RaylibCanvas struct {
	Cam   *camera.Camera
	Width float32
	Color rl.Color

	path Path
}

// NewRaylibCanvas creates a canvas drawing with the given stroke style.
func NewRaylibCanvas(cam *camera.Camera, width float32, color rl.Color, arcSegments int) *RaylibCanvas {
	return &RaylibCanvas{Cam: cam, Width: width, Color: color, path: Path{Segments: arcSegments}}
}

func (c *RaylibCanvas) MoveTo(p r2.Vec) { c.path.MoveTo(p) }
func (c *RaylibCanvas) LineTo(p r2.Vec) { c.path.LineTo(p) }

func (c *RaylibCanvas) Arc(center r2.Vec, radius, start, end float64) {
	c.path.Arc(center, radius, start, end)
}

// Stroke draws and clears the current path.
func (c *RaylibCanvas) Stroke() {
	width := c.Width * c.Cam.Zoom
	if width < 1 {
		width = 1
	}
	for _, sub := range c.path.Take() {
		for i := 1; i < len(sub); i++ {
			rl.DrawLineEx(c.screen(sub[i-1]), c.screen(sub[i]), width, c.Color)
		}
	}
}

func (c *RaylibCanvas) screen(p r2.Vec) rl.Vector2 {
	x, y := c.Cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

// ToColor converts an RGBA quadruple to a raylib colour.
func ToColor(c [4]uint8) rl.Color {
	return rl.NewColor(c[0], c[1], c[2], c[3])
}
