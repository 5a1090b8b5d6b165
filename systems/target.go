package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/input"
)

// TargetSystem feeds each rig its input for the tick.
type TargetSystem struct {
	filter ecs.Filter2[components.Rig, components.Target]
}

// NewTargetSystem creates the system over w.
func NewTargetSystem(w *ecs.World) *TargetSystem {
	return &TargetSystem{
		filter: *ecs.NewFilter2[components.Rig, components.Target](w),
	}
}

// Update fixes this tick's input for every rig. Waypoint sources see the
// body position first so they can advance.
func (s *TargetSystem) Update(tick int) {
	query := s.filter.Query()
	for query.Next() {
		rig, target := query.Get()
		if wp, ok := target.Source.(*input.Waypoints); ok {
			wp.Track(rig.Creature.Pos)
		}
		target.Resolve(tick)
	}
}

// SetPointer overrides every rig's input source while held is set.
func (s *TargetSystem) SetPointer(p r2.Vec, held bool) {
	query := s.filter.Query()
	for query.Next() {
		_, target := query.Get()
		target.Pointer = p
		target.Held = held
	}
}

// SetIdle toggles reduced motion on every rig.
func (s *TargetSystem) SetIdle(idle bool) {
	query := s.filter.Query()
	for query.Next() {
		_, target := query.Get()
		target.Idle = idle
	}
}
