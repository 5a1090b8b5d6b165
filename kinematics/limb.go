package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Limb is a single-goal IK solver over a chain of segments ending at End.
// It references the segments; the skeleton owns them.
type Limb struct {
	Nodes []int // chain, hip-most first
	End   int   // tip segment
	Hip   int   // parent of Nodes[0]
	Speed float64
}

// NewLimb walks up from end collecting at most p.Length segments. The walk
// stops early at the root, so the chain is the longest valid prefix.
func NewLimb(sk *Skeleton, end int, p LimbParams) (*Limb, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if end < 0 || end >= sk.Len() {
		return nil, fmt.Errorf("limb: end %d out of range: %w", end, ErrInvalidParams)
	}
	length := max(1, p.Length)

	var nodes []int
	node := end
	for len(nodes) < length && sk.IsSegment(node) {
		nodes = append(nodes, node)
		node = sk.Segs[node].Parent
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return &Limb{Nodes: nodes, End: end, Hip: node, Speed: p.Speed}, nil
}

// Len returns the number of segments in the chain.
func (l *Limb) Len() int {
	return len(l.Nodes)
}

// MoveTo pulls the tip toward goal by at most Speed and drags the rest of
// the chain after it. Link lengths are preserved exactly; angular limits
// of chain members are not enforced here.
func (l *Limb) MoveTo(sk *Skeleton, goal r2.Vec) {
	if len(l.Nodes) == 0 {
		return
	}
	sk.UpdateRelative(l.Nodes[0], true, true)

	// Backward pass, tip to hip: each node keeps its bearing from the point
	// placed before it.
	radius := math.Max(0, Dist(goal, sk.Segs[l.End].Pos)-l.Speed)
	anchor := goal
	for i := len(l.Nodes) - 1; i >= 0; i-- {
		seg := &sk.Segs[l.Nodes[i]]
		seg.Pos = r2.Add(anchor, polar(angleOf(r2.Sub(seg.Pos, anchor)), radius))
		anchor = seg.Pos
		radius = seg.Size
	}

	// Forward pass, hip to tip: re-anchor on the parent and rebuild angles.
	for k, i := range l.Nodes {
		seg := &sk.Segs[i]
		parent := &sk.Segs[seg.Parent]
		seg.AbsAngle = angleOf(r2.Sub(seg.Pos, parent.Pos))
		seg.RelAngle = seg.AbsAngle - parent.AbsAngle
		seg.Pos = r2.Add(parent.Pos, polar(seg.AbsAngle, seg.Size))

		next := -1
		if k+1 < len(l.Nodes) {
			next = l.Nodes[k+1]
		}
		for _, c := range seg.Children {
			if c != next {
				sk.UpdateRelative(c, true, false)
			}
		}
	}
}
