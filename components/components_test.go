package components

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/input"
	"github.com/pthm-cable/critter/kinematics"
)

func TestTargetResolve(t *testing.T) {
	src := input.Fixed{Point: r2.Vec{X: 5, Y: 6}}
	tests := []struct {
		name   string
		target Target
		want   kinematics.Input
	}{
		{"no source idles", Target{}, kinematics.Input{Idle: true}},
		{"source", Target{Source: src}, kinematics.Input{Target: r2.Vec{X: 5, Y: 6}}},
		{"pointer held", Target{Source: src, Held: true, Pointer: r2.Vec{X: 1}}, kinematics.Input{Target: r2.Vec{X: 1}}},
		{"idle keeps target", Target{Source: src, Idle: true}, kinematics.Input{Target: r2.Vec{X: 5, Y: 6}, Idle: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.target.Resolve(0)
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
			if tt.target.Last != got {
				t.Error("Last not recorded")
			}
		})
	}
}

func TestGaitObserve(t *testing.T) {
	c, err := kinematics.NewCreature(kinematics.BodyParams{
		Start: r2.Vec{X: 100, Y: 100},
		FAccel: 12, FFric: 1, FRes: 0.5, FThresh: 16,
		RAccel: 0.5, RFric: 0.085, RRes: 0.5, RThresh: 0.3,
	}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	for _, side := range []float64{-1, 1} {
		upper, err := c.AddSegment(kinematics.Root, kinematics.SegmentParams{Size: 10, Angle: side * math.Pi / 2, Range: 2 * math.Pi, Stiffness: 1})
		if err != nil {
			t.Fatal(err)
		}
		lower, err := c.AddSegment(upper, kinematics.SegmentParams{Size: 10, Range: 2 * math.Pi, Stiffness: 1})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.AddLeg(lower, kinematics.LegParams{LimbParams: kinematics.LimbParams{Length: 2, Speed: 4}}); err != nil {
			t.Fatal(err)
		}
	}

	var g Gait
	if out := g.Observe(c, nil); len(out) != 0 {
		t.Fatalf("first observe should only size the record, got %v", out)
	}
	if len(g.Prev) != 2 {
		t.Fatalf("Prev has %d entries, want 2", len(g.Prev))
	}

	var all []Transition
	targets := []r2.Vec{{X: 600, Y: 100}, {X: 600, Y: 500}, {X: 100, Y: 500}}
	for tick := 0; tick < 1500; tick++ {
		c.Follow(kinematics.Input{Target: targets[(tick/500)%len(targets)]})
		all = g.Observe(c, all)
	}
	if g.Lifts == 0 || g.Plants == 0 {
		t.Fatalf("lifts=%d plants=%d, want both > 0", g.Lifts, g.Plants)
	}
	if len(all) != g.Lifts+g.Plants {
		t.Errorf("%d transitions for %d counted changes", len(all), g.Lifts+g.Plants)
	}
	for _, tr := range all {
		if tr.From == tr.To {
			t.Errorf("transition without change: %+v", tr)
		}
	}
}

func TestGetMotionValue(t *testing.T) {
	pos := &Position{X: 1, Y: 2}
	rot := &Rotation{Heading: 0.5, AngVel: -0.1}
	mot := &Motion{FSpeed: 4, Speed: 3, Planted: 0.75}
	gait := &Gait{Lifts: 7, Plants: 6}

	for _, fd := range append(MotionFieldDescriptors(), GaitFieldDescriptors()...) {
		_ = GetMotionValue(pos, rot, mot, gait, fd.ID)
	}
	if v := GetMotionValue(pos, rot, mot, gait, "planted"); v != 0.75 {
		t.Errorf("planted = %v", v)
	}
	if v := GetMotionValue(pos, rot, mot, gait, "lifts"); v != 7 {
		t.Errorf("lifts = %v", v)
	}
	if v := GetMotionValue(pos, rot, mot, gait, "nope"); v != 0 {
		t.Errorf("unknown field = %v", v)
	}
}
