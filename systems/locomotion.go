package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/telemetry"
)

// LocomotionSystem advances every rig with the input TargetSystem resolved
// for the tick, then reports gait transitions and samples. The phases are
// separate calls so the caller can time them.
type LocomotionSystem struct {
	filter ecs.Filter7[
		components.Identity,
		components.Rig,
		components.Target,
		components.Gait,
		components.Position,
		components.Rotation,
		components.Motion,
	]

	transitions []components.Transition
	positions   []components.Position
}

// NewLocomotionSystem creates the system over w.
func NewLocomotionSystem(w *ecs.World) *LocomotionSystem {
	return &LocomotionSystem{
		filter: *ecs.NewFilter7[
			components.Identity,
			components.Rig,
			components.Target,
			components.Gait,
			components.Position,
			components.Rotation,
			components.Motion,
		](w),
	}
}

// Step advances every creature with the input resolved for this tick and
// refreshes the float32 mirrors.
func (s *LocomotionSystem) Step() {
	query := s.filter.Query()
	for query.Next() {
		_, rig, target, _, pos, rot, mot := query.Get()
		c := rig.Creature
		c.Follow(target.Last)

		pos.X, pos.Y = float32(c.Pos.X), float32(c.Pos.Y)
		rot.Heading = float32(c.AbsAngle)
		rot.AngVel = float32(c.RSpeed)
		mot.FSpeed = float32(c.FSpeed)
		mot.Speed = float32(c.Speed)
		mot.Planted = float32(c.PlantedFraction())
	}
}

// ObserveGait appends a lift or plant event for every phase change.
func (s *LocomotionSystem) ObserveGait(tick int32, events []telemetry.Event) []telemetry.Event {
	query := s.filter.Query()
	for query.Next() {
		id, rig, _, gait, _, _, _ := query.Get()
		s.transitions = gait.Observe(rig.Creature, s.transitions[:0])
		for _, tr := range s.transitions {
			if ev, ok := telemetry.NewGaitEvent(tick, id.ID, tr.System, tr.From, tr.To, tr.Foot); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

// Sample records one sample per creature into the collector.
func (s *LocomotionSystem) Sample(c *telemetry.Collector) {
	query := s.filter.Query()
	for query.Next() {
		_, rig, _, _, _, _, mot := query.Get()
		c.RecordSample(float64(mot.Speed), float64(mot.Planted), rig.Creature.Skel.LinkError())
	}
}

// Centroid returns the mean body position, for camera follow.
func (s *LocomotionSystem) Centroid() (x, y float32, ok bool) {
	s.positions = s.positions[:0]
	query := s.filter.Query()
	for query.Next() {
		_, _, _, _, pos, _, _ := query.Get()
		s.positions = append(s.positions, *pos)
	}
	return centroid(s.positions)
}
