package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
	"github.com/pthm-cable/critter/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.Creatures())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteEvents(g.events); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	}
	g.events = g.events[:0]

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) (string, error) {
	dir := g.snapshotDir
	if dir == "" {
		dir = "."
	}
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
	return path, nil
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  g.seed,
		Preset:   g.preset,
		Tick:     g.tick,
		Bookmark: bookmark,
	}
	g.forEachCreature(func(id uint32, c *kinematics.Creature) {
		snapshot.Creatures = append(snapshot.Creatures, telemetry.CaptureCreature(id, c))
	})
	return snapshot
}

// restore rebuilds the creatures recorded in a snapshot and applies their
// pose. The scene preset is taken from the snapshot.
func (g *Game) restore(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	cfg := config.Cfg()
	if snap.Preset != cfg.Scene.Preset {
		slog.Warn("snapshot preset differs from config, using snapshot", "snapshot", snap.Preset, "config", cfg.Scene.Preset)
		cfg.Scene.Preset = snap.Preset
	}
	g.seed = snap.RNGSeed
	g.preset = snap.Preset
	g.tick = snap.Tick

	rigMap := g.rigMap()
	for i := range snap.Creatures {
		cs := &snap.Creatures[i]
		e, err := g.spawn(cs.ID, r2.Vec{X: cs.X, Y: cs.Y})
		if err != nil {
			return err
		}
		rig := rigMap.Get(e)
		if err := cs.Apply(rig.Creature); err != nil {
			return fmt.Errorf("creature %d: %w", cs.ID, err)
		}
		if cs.ID >= g.nextID {
			g.nextID = cs.ID + 1
		}
	}
	g.creatures = len(snap.Creatures)

	// Gait baselines must reflect the restored phases.
	query := g.filter.Query()
	for query.Next() {
		_, rig, _, gait, _, _, _ := query.Get()
		gait.Reset(rig.Creature)
	}
	slog.Info("snapshot restored", "path", path, "tick", g.tick, "creatures", len(snap.Creatures))
	return nil
}

func (g *Game) rigMap() *ecs.Map1[components.Rig] {
	return ecs.NewMap1[components.Rig](g.world)
}
