package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/kinematics"
)

// pickMargin widens a creature's bounds for picking.
const pickMargin = 10.0

// pickCreature returns the creature whose body is nearest p among those
// whose bounds contain it.
func (g *Game) pickCreature(p r2.Vec) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := 0.0
	found := false

	query := g.filter.Query()
	for query.Next() {
		_, rig, _, _, _, _, _ := query.Get()
		c := rig.Creature
		lo, hi := c.Bounds()
		if p.X < lo.X-pickMargin || p.X > hi.X+pickMargin || p.Y < lo.Y-pickMargin || p.Y > hi.Y+pickMargin {
			continue
		}
		d := kinematics.Dist(p, c.Pos)
		if !found || d < closestDist {
			closest, closestDist, found = query.Entity(), d, true
		}
	}
	return closest, found
}

// inspected returns the selected creature, falling back to the first one.
func (g *Game) inspected() (ecs.Entity, bool) {
	if g.hasSelection && g.world.Alive(g.selected) {
		return g.selected, true
	}
	g.hasSelection = false

	var first ecs.Entity
	found := false
	query := g.filter.Query()
	for query.Next() {
		if !found {
			first, found = query.Entity(), true
		}
	}
	return first, found
}
