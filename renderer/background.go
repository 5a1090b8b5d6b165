package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critter/camera"
)

// BackgroundRenderer clears the frame and draws a world-aligned grid so
// camera motion is visible on the unbounded plane.
type BackgroundRenderer struct {
	base    rl.Color
	grid    rl.Color
	spacing float32
}

// NewBackgroundRenderer creates a background with a faint grid every
// spacing world units.
func NewBackgroundRenderer(base, stroke rl.Color, spacing float32) *BackgroundRenderer {
	grid := rl.ColorAlpha(stroke, 0.08)
	return &BackgroundRenderer{base: base, grid: grid, spacing: spacing}
}

// Draw clears to the base colour and draws the visible grid lines.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.base)
	if b.spacing <= 0 || b.spacing*cam.Zoom < 8 {
		return
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	x0 := float32(math.Floor(float64(minX/b.spacing))) * b.spacing
	y0 := float32(math.Floor(float64(minY/b.spacing))) * b.spacing

	for x := x0; x <= maxX; x += b.spacing {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: cam.ViewportH}, b.grid)
	}
	for y := y0; y <= maxY; y += b.spacing {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: cam.ViewportW, Y: sy}, b.grid)
	}
}
