package kinematics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func testBody(start r2.Vec) BodyParams {
	return BodyParams{
		Start:   start,
		FAccel:  12,
		FFric:   1,
		FRes:    0.5,
		FThresh: 16,
		RAccel:  0.5,
		RFric:   0.085,
		RRes:    0.5,
		RThresh: 0.3,
	}
}

// walker builds a creature with a tail and two sideways legs off the root.
func walker(t *testing.T, tailStiffness float64) *Creature {
	t.Helper()
	c, err := NewCreature(testBody(r2.Vec{X: 100, Y: 100}), rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	node := Root
	for i := 0; i < 6; i++ {
		node, err = c.AddSegment(node, SegmentParams{Size: 5, Range: 2, Stiffness: tailStiffness})
		if err != nil {
			t.Fatal(err)
		}
	}
	for _, side := range []float64{-1, 1} {
		upper, err := c.AddSegment(Root, SegmentParams{Size: 10, Angle: side * math.Pi / 2, Range: 2 * math.Pi, Stiffness: 1})
		if err != nil {
			t.Fatal(err)
		}
		lower, err := c.AddSegment(upper, SegmentParams{Size: 10, Range: 2 * math.Pi, Stiffness: 1})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.AddLeg(lower, LegParams{LimbParams: LimbParams{Length: 2, Speed: 4}}); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestNewCreatureRejectsInvalid(t *testing.T) {
	p := testBody(r2.Vec{})
	p.FRes = 1.5
	if _, err := NewCreature(p, nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
	p = testBody(r2.Vec{X: math.Inf(1)})
	if _, err := NewCreature(p, nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("err = %v, want ErrInvalidParams", err)
	}
}

func TestFollowReachesTargetAhead(t *testing.T) {
	c, err := NewCreature(testBody(r2.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	target := r2.Vec{X: 300}
	for i := 0; i < 200; i++ {
		c.Follow(Input{Target: target})
	}
	if d := Dist(c.Pos, target); d > 40 {
		t.Errorf("creature at %v, %v from target", c.Pos, d)
	}
	if c.AbsAngle != 0 || c.RSpeed != 0 {
		t.Errorf("heading changed: angle=%v rspeed=%v", c.AbsAngle, c.RSpeed)
	}
	if c.Speed != 0 {
		t.Errorf("speed = %v after arriving, want 0", c.Speed)
	}
}

func TestFollowForwardSpeedDynamics(t *testing.T) {
	c, err := NewCreature(testBody(r2.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	c.Follow(Input{Target: r2.Vec{X: 1000}})
	// (0 + 12) * 0.5 = 6, minus friction 1.
	if math.Abs(c.FSpeed-6) > 1e-12 || math.Abs(c.Speed-5) > 1e-12 {
		t.Errorf("fspeed=%v speed=%v, want 6 and 5", c.FSpeed, c.Speed)
	}
	if math.Abs(c.Pos.X-5) > 1e-12 {
		t.Errorf("x = %v, want 5", c.Pos.X)
	}
}

func TestFollowTurnsTowardBearing(t *testing.T) {
	c, err := NewCreature(testBody(r2.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	c.Follow(Input{Target: r2.Vec{Y: 200}})
	// +0.5 drive, halved by resistance, minus 0.085 friction.
	if math.Abs(c.RSpeed-0.165) > 1e-12 {
		t.Errorf("rspeed = %v, want 0.165", c.RSpeed)
	}
	if c.AbsAngle <= 0 {
		t.Errorf("angle = %v, want turned toward +y", c.AbsAngle)
	}
}

func TestFollowSmallSpinIsZeroed(t *testing.T) {
	c, err := NewCreature(testBody(r2.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	c.RSpeed = 0.1
	c.Follow(Input{Target: r2.Vec{}})
	if c.RSpeed != 0 {
		t.Errorf("rspeed = %v, want dead zone to zero it", c.RSpeed)
	}
}

func TestPlantedFractionScalesDrive(t *testing.T) {
	c := walker(t, 1)
	if got := c.PlantedFraction(); got != 1 {
		t.Fatalf("planted fraction = %v, want 1", got)
	}
	c.Systems[0].Leg.Step = Swinging
	if got := c.PlantedFraction(); got != 0.5 {
		t.Fatalf("planted fraction = %v, want 0.5", got)
	}
	c.Follow(Input{Target: r2.Vec{X: 1000, Y: 100}})
	if math.Abs(c.FSpeed-3) > 1e-12 {
		t.Errorf("fspeed = %v, want 12 * 0.5 * 0.5", c.FSpeed)
	}
}

func TestIdleHoldsPosition(t *testing.T) {
	c := walker(t, 1)
	start := c.Pos
	for i := 0; i < 20; i++ {
		c.Follow(Input{Target: r2.Vec{X: 900, Y: 900}, Idle: true})
	}
	if c.Pos != start || c.Speed != 0 {
		t.Errorf("idle creature moved to %v", c.Pos)
	}
}

func TestIdempotentAtRest(t *testing.T) {
	c := walker(t, 1.5)
	for i := 0; i < 400; i++ {
		c.Follow(Input{Target: c.Pos})
	}
	for i := range c.Systems {
		if c.Systems[i].Phase() != Planted {
			t.Fatalf("system %d not planted after settling", i)
		}
		leg := c.Systems[i].Leg
		if d := Dist(c.Skel.Segs[leg.End].Pos, leg.Goal); d > 1 {
			t.Fatalf("system %d drift %v", i, d)
		}
	}

	before := make([]r2.Vec, c.Skel.Len())
	for i := range c.Skel.Segs {
		before[i] = c.Skel.Segs[i].Pos
	}
	pos, angle := c.Pos, c.AbsAngle
	c.Follow(Input{Target: c.Pos})

	if c.Pos != pos || c.AbsAngle != angle {
		t.Errorf("body moved: %v/%v -> %v/%v", pos, angle, c.Pos, c.AbsAngle)
	}
	for i := range c.Skel.Segs {
		if d := Dist(before[i], c.Skel.Segs[i].Pos); d > 1e-9 {
			t.Errorf("segment %d moved %v", i, d)
		}
	}
}

func TestWalkKeepsLinksAndSteps(t *testing.T) {
	c := walker(t, 1.1)
	lifts := 0
	prev := make([]Phase, len(c.Systems))
	targets := []r2.Vec{{X: 600, Y: 100}, {X: 600, Y: 500}, {X: 100, Y: 500}}
	for tick := 0; tick < 1500; tick++ {
		c.Follow(Input{Target: targets[(tick/500)%len(targets)]})
		for i := range c.Systems {
			p := c.Systems[i].Phase()
			if prev[i] == Planted && p == Swinging {
				lifts++
			}
			prev[i] = p
		}
		if e := c.Skel.LinkError(); e > 1e-6 {
			t.Fatalf("tick %d: link error %v", tick, e)
		}
		if math.IsNaN(c.Pos.X) || math.IsNaN(c.AbsAngle) {
			t.Fatalf("tick %d: NaN body state", tick)
		}
	}
	if lifts == 0 {
		t.Error("legs never stepped while walking")
	}
	if Dist(c.Pos, r2.Vec{X: 100, Y: 100}) < 50 {
		t.Errorf("creature barely moved: %v", c.Pos)
	}
}

func TestFollowDrawsFrame(t *testing.T) {
	c := walker(t, 1)
	var rec Recorder
	c.Canvas = &rec
	c.Follow(Input{Target: c.Pos})
	if got := rec.Count(OpArc); got != 1 {
		t.Errorf("arcs = %d, want 1", got)
	}
	segments := c.Skel.Len() - 1
	if got := rec.Count(OpStroke); got != segments+1 {
		t.Errorf("strokes = %d, want %d", got, segments+1)
	}

	var replay Recorder
	rec.Replay(&replay)
	if len(replay.Prims) != len(rec.Prims) {
		t.Errorf("replay produced %d prims, want %d", len(replay.Prims), len(rec.Prims))
	}
}

func TestSystemVariants(t *testing.T) {
	c, err := NewCreature(testBody(r2.Vec{}), nil)
	if err != nil {
		t.Fatal(err)
	}
	node := Root
	for i := 0; i < 4; i++ {
		if node, err = c.AddSegment(node, SegmentParams{Size: 8, Range: 2, Stiffness: 1}); err != nil {
			t.Fatal(err)
		}
	}
	l, err := c.AddLimb(node, LimbParams{Length: 4, Speed: 8})
	if err != nil {
		t.Fatal(err)
	}
	sys := c.Systems[0]
	if sys.Kind != KindLimb || sys.Chain() != l || sys.Phase() != Planted {
		t.Fatalf("unexpected system %+v", sys)
	}

	// Range 2 keeps every joint within a radian of rest, so the chain
	// curls short of the goal; it must still close in on it and keep every
	// link length.
	goal := r2.Vec{X: -20, Y: 4}
	start := Dist(c.Skel.Segs[node].Pos, goal)
	for i := 0; i < 100; i++ {
		c.Follow(Input{Target: goal, Idle: true})
		if e := c.Skel.LinkError(); e > 1e-6 {
			t.Fatalf("tick %d: link error %v", i, e)
		}
	}
	if last := Dist(c.Skel.Segs[node].Pos, goal); last >= start {
		t.Errorf("tip distance %v, started at %v", last, start)
	}
}

