package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/input"
	"github.com/pthm-cable/critter/kinematics"
	"github.com/pthm-cable/critter/scene"
	"github.com/pthm-cable/critter/telemetry"
)

// spawnSpacing is the distance between neighbouring spawn points.
const spawnSpacing = 150.0

// creatureSeed derives a creature's topology and jitter seed from the
// generation seed, so a snapshot can rebuild the same bodies.
func creatureSeed(generation int64, id uint32) int64 {
	return generation + int64(id)*7919
}

// center is the world point under the screen centre at the home camera.
func (g *Game) center() r2.Vec {
	return r2.Vec{X: float64(g.screenWidth) / 2, Y: float64(g.screenHeight) / 2}
}

// spawnPoints lays the creatures out on a ring around the centre.
func (g *Game) spawnPoints(n int) []r2.Vec {
	if n == 1 {
		return []r2.Vec{g.center()}
	}
	radius := spawnSpacing * float64(n) / (2 * math.Pi)
	return input.Ring(g.center(), radius, n, 0)
}

// spawnCreatures creates the configured number of creatures.
func (g *Game) spawnCreatures() error {
	for _, at := range g.spawnPoints(g.creatures) {
		id := g.nextID
		g.nextID++
		if _, err := g.spawn(id, at); err != nil {
			return err
		}
	}
	return nil
}

// spawn builds one creature and adds it to the world.
func (g *Game) spawn(id uint32, at r2.Vec) (ecs.Entity, error) {
	cfg := config.Cfg()
	seed := creatureSeed(g.seed, id)
	rng := rand.New(rand.NewSource(seed))

	c, err := scene.FromConfig(cfg, at, rng)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("spawning creature %d: %w", id, err)
	}

	ident := components.Identity{ID: id}
	rig := components.Rig{Creature: c, Preset: g.preset, Seed: seed}
	target := components.Target{Source: g.sourceFor(cfg, at, seed), Idle: g.idle}
	var gait components.Gait
	gait.Reset(c)
	pos := components.Position{X: float32(at.X), Y: float32(at.Y)}
	rot := components.Rotation{Heading: float32(c.AbsAngle)}
	mot := components.Motion{Planted: float32(c.PlantedFraction())}

	entity := g.mapper.NewEntity(&ident, &rig, &target, &gait, &pos, &rot, &mot)
	slog.Debug("creature spawned", "id", id, "preset", g.preset, "segments", len(c.Skel.Segs), "systems", len(c.Systems))
	return entity, nil
}

// sourceFor picks the input source for a creature. Graphical runs chase
// the pointer unless wander is enabled; headless runs walk a waypoint ring
// so they exercise turning.
func (g *Game) sourceFor(cfg *config.Config, at r2.Vec, seed int64) input.Source {
	switch {
	case cfg.Scene.ReducedMotion:
		return input.Fixed{Point: g.center()}
	case cfg.Wander.Enabled:
		return input.NewWander(at, cfg.Wander.Radius, cfg.Wander.Frequency, seed)
	case g.headless:
		return &input.Waypoints{
			Points:    input.Ring(at, cfg.Wander.Radius, 5, float64(seed%7)),
			Tolerance: 2 * cfg.Body.FThresh,
		}
	default:
		return input.Fixed{Point: at}
	}
}

// respawn replaces every creature with a fresh generation drawn from a new
// seed. IDs keep increasing.
func (g *Game) respawn() {
	var toRemove []ecs.Entity
	query := g.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	g.hasSelection = false

	g.seed = g.rng.Int63()
	first := g.nextID
	if err := g.spawnCreatures(); err != nil {
		slog.Error("respawn failed", "error", err)
		return
	}
	for id := first; id < g.nextID; id++ {
		ev := telemetry.NewRespawnEvent(g.tick, id)
		g.events = append(g.events, ev)
		g.collector.RecordEvent(ev)
	}
	slog.Info("respawned", "tick", g.tick, "seed", g.seed, "creatures", g.nextID-first)
}

// forEachCreature calls fn for every live creature.
func (g *Game) forEachCreature(fn func(id uint32, c *kinematics.Creature)) {
	query := g.filter.Query()
	for query.Next() {
		ident, rig, _, _, _, _, _ := query.Get()
		fn(ident.ID, rig.Creature)
	}
}
