package kinematics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// bodyRadius is the radius of the head glyph.
const bodyRadius = 4.0

// Creature is the root of a segment tree. It chases a target with damped
// forward and rotational speed and drives its attached systems each tick.
type Creature struct {
	Pos      r2.Vec
	AbsAngle float64

	FSpeed float64 // forward speed before friction
	Speed  float64 // forward speed applied this tick
	RSpeed float64

	Body    BodyParams
	Skel    *Skeleton
	Systems []System

	// Canvas, when set, receives the frame at the end of every Follow.
	Canvas Canvas

	rng *rand.Rand
}

// NewCreature creates a bodiless creature at p.Start facing p.Angle. The
// rng feeds foothold jitter of legs attached later.
func NewCreature(p BodyParams, rng *rand.Rand) (*Creature, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Creature{
		Pos:      p.Start,
		AbsAngle: p.Angle,
		Body:     p,
		Skel:     NewSkeleton(p.Start, p.Angle),
		rng:      rng,
	}, nil
}

// AddSegment attaches a segment to parent (Root or another segment).
func (c *Creature) AddSegment(parent int, p SegmentParams) (int, error) {
	c.syncRoot(c.AbsAngle)
	return c.Skel.Add(parent, p)
}

// AddLimb attaches a plain limb that chases the external target.
func (c *Creature) AddLimb(end int, p LimbParams) (*Limb, error) {
	l, err := NewLimb(c.Skel, end, p)
	if err != nil {
		return nil, err
	}
	c.Systems = append(c.Systems, System{Kind: KindLimb, Limb: l})
	return l, nil
}

// AddLeg attaches a stepping leg.
func (c *Creature) AddLeg(end int, p LegParams) (*Leg, error) {
	c.syncRoot(c.AbsAngle)
	l, err := NewLeg(c.Skel, end, p, c.AbsAngle, c.rng)
	if err != nil {
		return nil, err
	}
	c.Systems = append(c.Systems, System{Kind: KindLeg, Leg: l})
	return l, nil
}

// PlantedFraction is the share of systems currently planted, or 1 when
// there are none.
func (c *Creature) PlantedFraction() float64 {
	if len(c.Systems) == 0 {
		return 1
	}
	planted := 0
	for i := range c.Systems {
		if c.Systems[i].Phase() == Planted {
			planted++
		}
	}
	return float64(planted) / float64(len(c.Systems))
}

// Follow advances the creature one tick toward in.Target.
func (c *Creature) Follow(in Input) {
	target := in.Target
	if in.Idle {
		target = c.Pos
	}
	to := r2.Sub(target, c.Pos)
	dist := r2.Norm(to)
	bearing := angleOf(to)
	b := &c.Body

	// Forward drive weakens as feet leave the ground.
	if dist > b.FThresh {
		c.FSpeed += b.FAccel * c.PlantedFraction()
	}
	c.FSpeed *= 1 - b.FRes
	c.Speed = math.Max(0, c.FSpeed-b.FFric)

	dif := WrapAngle(c.AbsAngle - bearing)
	if math.Abs(dif) > b.RThresh && dist > b.FThresh {
		c.RSpeed -= b.RAccel * sign(dif)
	}
	c.RSpeed *= 1 - b.RRes
	if math.Abs(c.RSpeed) > b.RFric {
		c.RSpeed -= b.RFric * sign(c.RSpeed)
	} else {
		c.RSpeed = 0
	}

	c.AbsAngle = WrapAngle(c.AbsAngle + c.RSpeed)
	c.Pos = r2.Add(c.Pos, polar(c.AbsAngle, c.Speed))

	// The body trails behind the head, so children hang off the reversed
	// heading while the tree and limbs update.
	c.syncRoot(c.AbsAngle + math.Pi)
	c.Skel.Follow(Root, true)
	for i := range c.Systems {
		c.Systems[i].Advance(c.Skel, in)
	}
	c.syncRoot(c.AbsAngle)

	if c.Canvas != nil {
		c.Draw(c.Canvas)
	}
}

// Draw emits the head glyph and the whole segment tree.
func (c *Creature) Draw(cv Canvas) {
	a := c.AbsAngle
	cv.Arc(c.Pos, bodyRadius, a+math.Pi/4, a+7*math.Pi/4)
	cv.MoveTo(r2.Add(c.Pos, polar(a+7*math.Pi/4, bodyRadius)))
	cv.LineTo(r2.Add(c.Pos, polar(a, bodyRadius*math.Sqrt2)))
	cv.LineTo(r2.Add(c.Pos, polar(a+math.Pi/4, bodyRadius)))
	cv.Stroke()
	c.Skel.Draw(Root, cv, true)
}

// Bounds returns the axis-aligned box around every segment and the body.
func (c *Creature) Bounds() (lo, hi r2.Vec) {
	lo, hi = c.Pos, c.Pos
	for i := range c.Skel.Segs {
		p := c.Skel.Segs[i].Pos
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

func (c *Creature) syncRoot(angle float64) {
	root := &c.Skel.Segs[Root]
	root.Pos = c.Pos
	root.AbsAngle = angle
}
