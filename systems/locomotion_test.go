package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/input"
	"github.com/pthm-cable/critter/scene"
	"github.com/pthm-cable/critter/telemetry"
)

func spawnLizard(t *testing.T, w *ecs.World, id uint32, at r2.Vec, src input.Source) ecs.Entity {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scene.Preset = scene.PresetLizard
	cfg.Scene.Legs = 4
	c, err := scene.FromConfig(cfg, at, rand.New(rand.NewSource(int64(id)+1)))
	if err != nil {
		t.Fatal(err)
	}
	mapper := ecs.NewMap7[
		components.Identity,
		components.Rig,
		components.Target,
		components.Gait,
		components.Position,
		components.Rotation,
		components.Motion,
	](w)
	ident := components.Identity{ID: id}
	rig := components.Rig{Creature: c, Preset: scene.PresetLizard}
	target := components.Target{Source: src}
	var gait components.Gait
	gait.Reset(c)
	pos := components.Position{X: float32(at.X), Y: float32(at.Y)}
	var rot components.Rotation
	var mot components.Motion
	return mapper.NewEntity(&ident, &rig, &target, &gait, &pos, &rot, &mot)
}

func TestLocomotionWalksAndReportsGait(t *testing.T) {
	w := ecs.NewWorld()
	spawnLizard(t, w, 1, r2.Vec{}, input.Fixed{Point: r2.Vec{X: 400}})
	spawnLizard(t, w, 2, r2.Vec{Y: 200}, input.Fixed{Point: r2.Vec{X: -400, Y: 200}})

	targets := NewTargetSystem(w)
	sys := NewLocomotionSystem(w)
	col := telemetry.NewCollector(1, 0.1)
	var events []telemetry.Event
	for tick := 0; tick < 300; tick++ {
		targets.Update(tick)
		sys.Step()
		events = sys.ObserveGait(int32(tick), events)
		sys.Sample(col)
	}

	seen := map[uint32]bool{}
	for _, ev := range events {
		seen[ev.EntityID] = true
		if ev.Type != telemetry.EventLift && ev.Type != telemetry.EventPlant {
			t.Errorf("unexpected event type %v", ev.Type)
		}
	}
	if !seen[1] || !seen[2] {
		t.Errorf("gait events from %v, want both creatures", seen)
	}

	x, _, ok := sys.Centroid()
	if !ok {
		t.Fatal("no centroid with two creatures")
	}
	// One heads right and one left; they should not both have drifted far
	// the same way.
	if x > 300 || x < -300 {
		t.Errorf("centroid x = %v", x)
	}

	stats := col.Flush(300, 2)
	if stats.SpeedMax <= 0 {
		t.Error("no motion sampled")
	}
}

func TestLocomotionPointerOverride(t *testing.T) {
	w := ecs.NewWorld()
	spawnLizard(t, w, 1, r2.Vec{}, input.Fixed{Point: r2.Vec{X: 400}})
	targets := NewTargetSystem(w)
	sys := NewLocomotionSystem(w)

	targets.SetPointer(r2.Vec{X: -400}, true)
	for tick := 0; tick < 300; tick++ {
		targets.Update(tick)
		sys.Step()
	}
	x, _, _ := sys.Centroid()
	if x > 0 {
		t.Errorf("pointer override ignored: x = %v", x)
	}

	targets.SetPointer(r2.Vec{}, false)
	targets.SetIdle(true)
	before, _, _ := sys.Centroid()
	for tick := 0; tick < 100; tick++ {
		targets.Update(tick)
		sys.Step()
	}
	after, _, _ := sys.Centroid()
	if d := after - before; d > 30 || d < -30 {
		t.Errorf("idle creature moved %v", d)
	}
}

func TestLocomotionTracksWaypoints(t *testing.T) {
	w := ecs.NewWorld()
	wp := &input.Waypoints{Points: input.Ring(r2.Vec{}, 150, 3, 0), Tolerance: 30}
	spawnLizard(t, w, 1, r2.Vec{}, wp)
	targets := NewTargetSystem(w)
	sys := NewLocomotionSystem(w)
	for tick := 0; tick < 2000; tick++ {
		targets.Update(tick)
		sys.Step()
	}
	if wp.Reached == 0 {
		t.Error("no waypoint reached")
	}
}

func TestRegistryDrivesPerfPhases(t *testing.T) {
	reg := NewSystemRegistry()
	want := []string{PhaseInput, PhaseLocomotion, PhaseGait, PhaseTelemetry}
	got := reg.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if reg.Name(PhaseGait) != "Gait" {
		t.Errorf("Name(gait) = %q", reg.Name(PhaseGait))
	}
	if reg.Name("missing") != "missing" {
		t.Error("Name should fall back to the ID")
	}

	pc := telemetry.NewPerfCollector(reg.IDs(), 4)
	pc.StartTick()
	for _, id := range reg.IDs() {
		pc.StartPhase(id)
	}
	pc.EndTick()
	rows := pc.Stats().Rows(1)
	if len(rows) != len(want)+1 {
		t.Fatalf("perf rows = %d, want %d", len(rows), len(want)+1)
	}
	for i, id := range want {
		if rows[i+1].Phase != id {
			t.Errorf("row %d phase %q, want %q", i+1, rows[i+1].Phase, id)
		}
	}
}

func TestCentroid(t *testing.T) {
	if _, _, ok := centroid(nil); ok {
		t.Error("empty centroid reported ok")
	}
	x, y, ok := centroid([]components.Position{{X: 0, Y: 0}, {X: 4, Y: 2}})
	if !ok || x != 2 || y != 1 {
		t.Errorf("centroid = (%v, %v, %v)", x, y, ok)
	}
}
