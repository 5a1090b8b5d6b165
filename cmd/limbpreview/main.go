// Limb preview tool - a single chain following the mouse, tuned with sliders.
//
// Usage: go run ./cmd/limbpreview
package main

import (
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/camera"
	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
	"github.com/pthm-cable/critter/renderer"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewWidth = 720
	panelWidth   = windowWidth - previewWidth - 30
)

// slider draws one labelled slider row and returns the new value.
func slider(x float32, y *float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Limb Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(previewWidth, windowHeight, 0.25, 4)
	canvas := renderer.NewRaylibCanvas(cam, cfg.Render.StrokeWidth, rl.DarkGray, cfg.Render.ArcSegments)
	anchor := r2.Vec{X: previewWidth / 2, Y: windowHeight / 2}

	params := DefaultChainParams()
	var creature *kinematics.Creature
	var buildErr error
	needsRebuild := true
	paused := false

	for !rl.WindowShouldClose() {
		if needsRebuild {
			creature, buildErr = params.Build(anchor, cfg.Body)
			if creature != nil {
				creature.Canvas = canvas
			}
			needsRebuild = false
		}

		mouse := rl.GetMousePosition()
		wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
		target := r2.Vec{X: float64(wx), Y: float64(wy)}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.BeginScissorMode(10, 10, previewWidth-20, windowHeight-20)
		if creature != nil && buildErr == nil {
			if paused {
				creature.Draw(canvas)
			} else {
				idle := mouse.X > previewWidth
				creature.Follow(kinematics.Input{Target: target, Idle: idle})
			}
		}
		rl.EndScissorMode()
		rl.DrawRectangleLines(10, 10, previewWidth-20, windowHeight-20, rl.LightGray)

		if buildErr != nil {
			rl.DrawText(buildErr.Error(), 20, windowHeight-40, 16, rl.Red)
		} else if creature != nil {
			rl.DrawText(fmt.Sprintf("Speed: %.2f  Planted: %.2f", creature.Speed, creature.PlantedFraction()),
				20, windowHeight-40, 16, rl.DarkGray)
		}

		panelX := float32(previewWidth + 20)
		panelY := float32(10)
		rl.DrawText("Chain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		next := params
		next.Links = int(slider(panelX, &panelY, "Links (segments in the chain)", "%.0f", float32(params.Links), 1, 64))
		next.Size = slider(panelX, &panelY, "Size (link length)", "%.1f", params.Size, 2, 40)
		next.Speed = slider(panelX, &panelY, "Speed (tip travel per tick)", "%.1f", params.Speed, 0.5, 60)
		next.Range = slider(panelX, &panelY, "Range (joint slack, radians)", "%.2f", params.Range, 0, 6.28)
		next.Stiffness = slider(panelX, &panelY, "Stiffness (relaxation divisor)", "%.1f", params.Stiffness, 1, 20)
		if next != params {
			params = next
			needsRebuild = true
		}

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Walk, "Reach", "Walk")) {
			params.Walk = !params.Walk
			needsRebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		panelY += 45
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
			walk := params.Walk
			params = DefaultChainParams()
			params.Walk = walk
			needsRebuild = true
		}
		panelY += 55

		rl.DrawText("Segment:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range []string{
			fmt.Sprintf("  size: %.1f", params.Size),
			fmt.Sprintf("  range: %.2f", params.Range),
			fmt.Sprintf("  stiffness: %.1f", params.Stiffness),
			fmt.Sprintf("limb length %d, speed %.1f", params.Links, params.Speed),
		} {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Move the mouse over the preview to set the target", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
