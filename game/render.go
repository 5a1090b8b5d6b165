package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/ui"
)

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.background.Draw(g.camera)

	segments, limbs := 0, 0
	query := g.filter.Query()
	for query.Next() {
		_, rig, _, _, _, _, _ := query.Get()
		c := rig.Creature
		segments += len(c.Skel.Segs) - 1
		limbs += len(c.Systems)

		lo, hi := c.Bounds()
		if !g.camera.IsBoxVisible(float32(lo.X), float32(lo.Y), float32(hi.X), float32(hi.Y)) {
			continue
		}
		c.Draw(g.canvas)
	}

	g.drawSelection()
	g.drawUI(segments, limbs)

	rl.EndDrawing()
	g.perfCollector.RecordFrame()
}

// drawSelection rings the inspected creature's body.
func (g *Game) drawSelection() {
	if !g.hasSelection || !g.world.Alive(g.selected) {
		return
	}
	pos := ecs.NewMap1[components.Position](g.world).Get(g.selected)
	sx, sy := g.camera.WorldToScreen(pos.X, pos.Y)
	rl.DrawCircleLines(int32(sx), int32(sy), 14*g.camera.Zoom, rl.Yellow)
}

// drawUI draws the HUD, the optional perf panel and the inspector.
func (g *Game) drawUI(segments, limbs int) {
	g.hud.Draw(ui.HUDData{
		Title:     "Critter",
		Preset:    g.preset,
		Creatures: g.creatures,
		Segments:  segments,
		Systems:   limbs,
		Tick:      g.tick,
		Steps:     g.stepsPerUpdate,
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
		Follow:    g.follow,
		Idle:      g.idle,
	})

	if g.showPerf {
		stats := g.perfCollector.Stats()
		lines := make([]ui.PhaseLine, len(stats.Phases))
		for i, ph := range stats.Phases {
			lines[i] = ui.PhaseLine{Name: g.registry.Name(ph.Name), Avg: ph.Avg, Pct: ph.Pct}
		}
		g.perfPanel.Draw(ui.PerfPanelData{Phases: lines, Total: stats.AvgTick})
	}

	if e, ok := g.inspected(); ok {
		ident := ecs.NewMap1[components.Identity](g.world).Get(e)
		g.inspector.Draw(ui.InspectorData{
			ID:       ident.ID,
			Preset:   g.preset,
			Position: ecs.NewMap1[components.Position](g.world).Get(e),
			Rotation: ecs.NewMap1[components.Rotation](g.world).Get(e),
			Motion:   ecs.NewMap1[components.Motion](g.world).Get(e),
			Gait:     ecs.NewMap1[components.Gait](g.world).Get(e),
		})
	}

	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"Mouse: Target | RMB: Inspect | SPACE: Pause | R: Respawn | C: Follow | I: Idle | S: Snapshot | P: Perf | < >: Steps")
}
