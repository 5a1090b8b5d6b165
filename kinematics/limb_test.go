package kinematics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewLimbChainDiscovery(t *testing.T) {
	sk := straightChain(t, 3, 10, math.Pi, 1)
	tests := []struct {
		name    string
		end     int
		length  int
		wantLen int
		wantHip int
	}{
		{"exact", 3, 3, 3, Root},
		{"longer than tree", 3, 10, 3, Root},
		{"partial", 3, 2, 2, 1},
		{"zero length clamps to one", 3, 0, 1, 2},
		{"root end", Root, 4, 0, Root},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLimb(sk, tt.end, LimbParams{Length: tt.length, Speed: 1})
			if err != nil {
				t.Fatal(err)
			}
			if l.Len() != tt.wantLen || l.Hip != tt.wantHip {
				t.Errorf("len=%d hip=%d, want len=%d hip=%d", l.Len(), l.Hip, tt.wantLen, tt.wantHip)
			}
			if l.Len() > 0 && l.Nodes[l.Len()-1] != tt.end {
				t.Errorf("last node = %d, want tip %d", l.Nodes[l.Len()-1], tt.end)
			}
		})
	}
}

func TestNewLimbRejectsInvalid(t *testing.T) {
	sk := straightChain(t, 2, 10, 1, 1)
	if _, err := NewLimb(sk, 9, LimbParams{Length: 2}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("out of range end: err = %v", err)
	}
	if _, err := NewLimb(sk, 2, LimbParams{Length: 2, Speed: -1}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("negative speed: err = %v", err)
	}
}

func TestMoveToScenario(t *testing.T) {
	sk := straightChain(t, 3, 10, math.Pi, 1)
	l, err := NewLimb(sk, 3, LimbParams{Length: 3, Speed: 2})
	if err != nil {
		t.Fatal(err)
	}
	goal := r2.Vec{X: 30}
	l.MoveTo(sk, goal)

	if d := Dist(sk.Segs[3].Pos, goal); d > 2+1e-9 {
		t.Errorf("tip %v is %v from goal, want <= speed", sk.Segs[3].Pos, d)
	}
	for _, i := range l.Nodes {
		if d := Dist(sk.Segs[i].Pos, sk.Segs[sk.Segs[i].Parent].Pos); math.Abs(d-10) > 1e-9 {
			t.Errorf("segment %d link = %v, want 10", i, d)
		}
	}
}

func TestMoveToEmptyLimbIsNoop(t *testing.T) {
	sk := NewSkeleton(r2.Vec{X: 1, Y: 2}, 0)
	l, err := NewLimb(sk, Root, LimbParams{Length: 3, Speed: 1})
	if err != nil {
		t.Fatal(err)
	}
	l.MoveTo(sk, r2.Vec{X: 100})
	if sk.Segs[Root].Pos != (r2.Vec{X: 1, Y: 2}) {
		t.Errorf("root moved to %v", sk.Segs[Root].Pos)
	}
}

func TestMoveToConvergesOnReachableGoal(t *testing.T) {
	sk := straightChain(t, 3, 10, 2*math.Pi, 1)
	l, err := NewLimb(sk, 3, LimbParams{Length: 3, Speed: 3})
	if err != nil {
		t.Fatal(err)
	}
	goal := r2.Vec{X: 15, Y: 15}
	for i := 0; i < 300; i++ {
		l.MoveTo(sk, goal)
	}
	if d := Dist(sk.Segs[3].Pos, goal); d > 1 {
		t.Errorf("tip %v still %v from goal", sk.Segs[3].Pos, d)
	}
}

func TestMoveToPreservesLinkLengths(t *testing.T) {
	sk := NewSkeleton(r2.Vec{}, 0)
	chain := []SegmentParams{
		{Size: 12, Angle: 0.4, Range: 1, Stiffness: 1.5},
		{Size: 8, Angle: -0.3, Range: 2, Stiffness: 1},
		{Size: 5, Angle: 0.2, Range: 0.5, Stiffness: 4},
		{Size: 3, Angle: 0, Range: 3, Stiffness: 1.1},
	}
	parent := Root
	var nodes []int
	for _, p := range chain {
		i, err := sk.Add(parent, p)
		if err != nil {
			t.Fatal(err)
		}
		nodes = append(nodes, i)
		parent = i
	}
	// Side branches hanging off the chain follow rigidly.
	branch, err := sk.Add(nodes[1], SegmentParams{Size: 4, Angle: 1.2, Range: 0.1, Stiffness: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sk.Add(branch, SegmentParams{Size: 2, Angle: -0.3, Range: 0.1, Stiffness: 2}); err != nil {
		t.Fatal(err)
	}

	l, err := NewLimb(sk, nodes[len(nodes)-1], LimbParams{Length: 4, Speed: 2})
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	goal := r2.Vec{}
	for tick := 0; tick < 1000; tick++ {
		if tick%25 == 0 {
			goal = r2.Vec{X: rng.Float64()*120 - 60, Y: rng.Float64()*120 - 60}
		}
		l.MoveTo(sk, goal)
		for _, i := range l.Nodes {
			seg := sk.Segs[i]
			if d := Dist(seg.Pos, sk.Segs[seg.Parent].Pos); math.Abs(d-seg.Size) > 1e-6 {
				t.Fatalf("tick %d: segment %d link = %v, want %v", tick, i, d, seg.Size)
			}
		}
		if e := sk.LinkError(); e > 1e-6 {
			t.Fatalf("tick %d: tree link error %v", tick, e)
		}
	}
}
