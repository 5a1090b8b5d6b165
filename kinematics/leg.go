package kinematics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Phase is a leg's gait phase.
type Phase uint8

const (
	Planted Phase = iota
	Swinging
)

func (p Phase) String() string {
	switch p {
	case Planted:
		return "planted"
	case Swinging:
		return "swinging"
	default:
		return "unknown"
	}
}

const (
	liftDrift      = 1.0 // foot drift from its plant point that triggers a step
	landDeltaSq    = 1.0 // squared forwardness change below which a foot lands
	footholdJitter = 0.5 // relative spread of the stride radius
)

// Leg is a limb that picks its own goal: it stays planted until the body
// drags the foot away, then swings to a fresh foothold ahead of the hip.
type Leg struct {
	Limb

	Goal        r2.Vec
	Step        Phase
	Forwardness float64
	Reach       float64
	Swing       float64
	SwingOffset float64

	rng *rand.Rand
}

// NewLeg builds a leg whose neutral foothold direction is derived from the
// constructed pose relative to heading, the creature's facing.
func NewLeg(sk *Skeleton, end int, p LegParams, heading float64, rng *rand.Rand) (*Leg, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	limb, err := NewLimb(sk, end, p.LimbParams)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	tip := sk.Segs[end].Pos
	hip := &sk.Segs[limb.Hip]
	d := r2.Sub(tip, hip.Pos)

	reach := p.Reach
	if reach == 0 {
		reach = 0.9 * r2.Norm(d)
	}

	rel := WrapAngle(heading - angleOf(d))
	swing := -rel - math.Pi/2
	if rel < 0 {
		swing = -rel + math.Pi/2
	}

	return &Leg{
		Limb:        *limb,
		Goal:        tip,
		Step:        Planted,
		Reach:       reach,
		Swing:       swing,
		SwingOffset: heading - hip.AbsAngle,
		rng:         rng,
	}, nil
}

// Update runs one gait step and then solves the chain toward the leg's own
// goal. The external target is not consulted.
func (l *Leg) Update(sk *Skeleton) {
	if len(l.Nodes) == 0 {
		return
	}
	tip := sk.Segs[l.End].Pos
	hip := &sk.Segs[l.Hip]

	switch l.Step {
	case Planted:
		if Dist(tip, l.Goal) > liftDrift {
			l.Step = Swinging
			l.Goal = l.foothold(hip)
			l.Forwardness = forwardness(tip, hip)
		}
	case Swinging:
		f := forwardness(tip, hip)
		dF := l.Forwardness - f
		l.Forwardness = f
		if dF*dF < landDeltaSq {
			l.Step = Planted
			l.Goal = tip
		}
	}
	l.MoveTo(sk, l.Goal)
}

// foothold picks the next stepping goal around the neutral direction.
func (l *Leg) foothold(hip *Segment) r2.Vec {
	angle := l.Swing + hip.AbsAngle + l.SwingOffset
	r := l.Reach * (1 + (2*l.rng.Float64()-1)*footholdJitter)
	return r2.Add(hip.Pos, polar(angle, r))
}

// forwardness projects the hip-to-tip vector onto the hip's facing.
func forwardness(tip r2.Vec, hip *Segment) float64 {
	return r2.Dot(r2.Sub(tip, hip.Pos), polar(hip.AbsAngle, 1))
}
