// Package components defines the ECS components that carry creatures
// through the simulation loop.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/input"
	"github.com/pthm-cable/critter/kinematics"
)

// Identity is the stable creature ID used by telemetry and snapshots.
// IDs are never reused within a run, including across respawns.
type Identity struct {
	ID uint32
}

// Rig owns one creature's segment tree and systems.
type Rig struct {
	Creature *kinematics.Creature
	Preset   string
	Seed     int64 // seed the topology and foothold jitter were drawn from
}

// Target supplies the per-tick input for a rig.
type Target struct {
	Source input.Source

	// Pointer overrides Source while Held is set, for example while the
	// mouse button is down.
	Pointer r2.Vec
	Held    bool

	// Idle holds the body still (reduced motion).
	Idle bool

	// Last is the input applied on the most recent tick.
	Last kinematics.Input
}

// Resolve returns the input for this tick.
func (t *Target) Resolve(tick int) kinematics.Input {
	var in kinematics.Input
	switch {
	case t.Held:
		in = kinematics.Input{Target: t.Pointer}
	case t.Source != nil:
		in = t.Source.Next(tick)
	default:
		in = kinematics.Input{Idle: true}
	}
	if t.Idle {
		in.Idle = true
	}
	t.Last = in
	return in
}

// Gait tracks per-system phase so transitions can be reported as events.
type Gait struct {
	Prev   []kinematics.Phase
	Lifts  int
	Plants int
}

// Reset sizes the phase record to the creature and copies current phases.
func (g *Gait) Reset(c *kinematics.Creature) {
	g.Prev = g.Prev[:0]
	for i := range c.Systems {
		g.Prev = append(g.Prev, c.Systems[i].Phase())
	}
}

// Transition is one phase change observed after a tick.
type Transition struct {
	System   int
	From, To kinematics.Phase
	Foot     r2.Vec
}

// Observe compares current phases against the last tick, updates counters,
// and appends every change to out.
func (g *Gait) Observe(c *kinematics.Creature, out []Transition) []Transition {
	if len(g.Prev) != len(c.Systems) {
		g.Reset(c)
		return out
	}
	for i := range c.Systems {
		sys := &c.Systems[i]
		cur := sys.Phase()
		if cur == g.Prev[i] {
			continue
		}
		if cur == kinematics.Swinging {
			g.Lifts++
		} else {
			g.Plants++
		}
		foot := c.Skel.Segs[sys.Chain().End].Pos
		out = append(out, Transition{System: i, From: g.Prev[i], To: cur, Foot: foot})
		g.Prev[i] = cur
	}
	return out
}
