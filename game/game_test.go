package game

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
	"github.com/pthm-cable/critter/telemetry"
)

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	if err := config.Init(""); err != nil {
		t.Fatal(err)
	}
	SetLogWriter(io.Discard)
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessRun(t *testing.T) {
	g := newHeadless(t, Options{Seed: 7, StepsPerUpdate: 5, Creatures: 3})
	for g.Tick() < 300 {
		g.UpdateHeadless()
	}
	if g.Tick() != 300 {
		t.Errorf("Tick() = %d, want 300", g.Tick())
	}
	if n := g.Creatures(); n != 3 {
		t.Errorf("Creatures() = %d, want 3", n)
	}
	g.forEachCreature(func(id uint32, c *kinematics.Creature) {
		if math.IsNaN(c.Pos.X) || math.IsNaN(c.AbsAngle) {
			t.Errorf("creature %d has NaN state", id)
		}
		if e := c.Skel.LinkError(); e > 1e-6 {
			t.Errorf("creature %d link error %v", id, e)
		}
	})
}

func TestRespawnAdvancesIDs(t *testing.T) {
	g := newHeadless(t, Options{Seed: 7, Creatures: 2})
	g.UpdateHeadless()
	seed := g.seed

	g.respawn()
	if g.Creatures() != 2 {
		t.Fatalf("Creatures() = %d after respawn, want 2", g.Creatures())
	}
	if g.seed == seed {
		t.Error("respawn kept the old seed")
	}
	var respawns int
	for _, ev := range g.events {
		if ev.Type == telemetry.EventRespawn {
			respawns++
			if ev.EntityID < 2 {
				t.Errorf("respawn reused id %d", ev.EntityID)
			}
		}
	}
	if respawns != 2 {
		t.Errorf("%d respawn events, want 2", respawns)
	}
}

func TestSnapshotRestore(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{Seed: 11, Creatures: 2, SnapshotDir: dir})
	for g.Tick() < 120 {
		g.UpdateHeadless()
	}
	path, err := g.saveSnapshot(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := g.createSnapshot(nil)

	restored := newHeadless(t, Options{Seed: 999, RestorePath: path})
	if restored.Tick() != g.Tick() {
		t.Errorf("restored tick %d, want %d", restored.Tick(), g.Tick())
	}
	got := restored.createSnapshot(nil)
	if len(got.Creatures) != len(want.Creatures) {
		t.Fatalf("restored %d creatures, want %d", len(got.Creatures), len(want.Creatures))
	}
	for i := range want.Creatures {
		w, r := want.Creatures[i], got.Creatures[i]
		if w.ID != r.ID || w.X != r.X || w.Y != r.Y || w.AbsAngle != r.AbsAngle {
			t.Errorf("creature %d: got %+v at (%v,%v), want (%v,%v)", i, r.ID, r.X, r.Y, w.X, w.Y)
		}
		for j := range w.Segments {
			if w.Segments[j] != r.Segments[j] {
				t.Fatalf("creature %d segment %d differs", i, j)
			}
		}
	}

}

func TestRestoreMissingSnapshot(t *testing.T) {
	if err := config.Init(""); err != nil {
		t.Fatal(err)
	}
	_, err := NewGameWithOptions(Options{Headless: true, RestorePath: filepath.Join(t.TempDir(), "nope.json")})
	if err == nil {
		t.Fatal("expected error for a missing snapshot")
	}
}

func TestOutputAndStatsCallback(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{Seed: 3, OutputDir: dir, StatsWindowSec: 0.33})

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })
	for g.Tick() < 100 {
		g.UpdateHeadless()
	}
	g.Unload()

	if len(windows) != 10 {
		t.Errorf("got %d windows, want 10", len(windows))
	}
	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	// One tick row plus one row per phase for every window.
	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(perf)), "\n")
	if lines[0] != "window_end,phase,avg_us,pct,ticks_per_sec" {
		t.Errorf("perf header = %q", lines[0])
	}
	if got, want := len(lines)-1, 10*5; got != want {
		t.Errorf("perf rows = %d, want %d", got, want)
	}
	if !strings.Contains(string(perf), ",locomotion,") {
		t.Error("perf.csv has no locomotion rows")
	}
}

func TestPickCreature(t *testing.T) {
	g := newHeadless(t, Options{Seed: 5})
	center := g.center()

	e, ok := g.pickCreature(center)
	if !ok {
		t.Fatal("no creature at the spawn point")
	}
	if want, _ := g.inspected(); want != e {
		t.Error("inspected() should fall back to the only creature")
	}
	if _, ok := g.pickCreature(r2.Vec{X: center.X + 5000, Y: center.Y}); ok {
		t.Error("picked a creature far from any body")
	}
}
