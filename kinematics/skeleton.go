package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Root is the arena index of the synthetic root record that mirrors the
// creature body. It is not a Segment and never moves on its own.
const Root = 0

// Segment is one rigid link in the body tree.
type Segment struct {
	Parent   int   // arena index of the parent, -1 for Root
	Children []int // arena indices of attached links, in attachment order

	Size      float64
	RelAngle  float64 // relative to the parent's AbsAngle
	DefAngle  float64 // rest angle
	AbsAngle  float64
	Range     float64
	Stiffness float64

	Pos r2.Vec
}

// Skeleton is an arena of segments addressed by stable index. Records are
// only appended; topology is fixed once a creature starts ticking.
type Skeleton struct {
	Segs []Segment
}

// NewSkeleton creates a skeleton holding only the root record.
func NewSkeleton(pos r2.Vec, angle float64) *Skeleton {
	return &Skeleton{
		Segs: []Segment{{Parent: -1, AbsAngle: angle, Pos: pos, Stiffness: 1}},
	}
}

// Len returns the number of records, including the root.
func (s *Skeleton) Len() int {
	return len(s.Segs)
}

// IsSegment reports whether i addresses a real segment.
func (s *Skeleton) IsSegment(i int) bool {
	return i > Root && i < len(s.Segs)
}

// Add attaches a new segment to parent and settles it at its rest angle.
func (s *Skeleton) Add(parent int, p SegmentParams) (int, error) {
	if parent < 0 || parent >= len(s.Segs) {
		return -1, fmt.Errorf("segment: parent %d out of range: %w", parent, ErrInvalidParams)
	}
	if err := p.Validate(); err != nil {
		return -1, err
	}
	idx := len(s.Segs)
	s.Segs = append(s.Segs, Segment{
		Parent:    parent,
		Size:      p.Size,
		RelAngle:  p.Angle,
		DefAngle:  p.Angle,
		Range:     p.Range,
		Stiffness: p.Stiffness,
	})
	s.Segs[parent].Children = append(s.Segs[parent].Children, idx)
	s.UpdateRelative(idx, false, true)
	return idx, nil
}

// UpdateRelative wraps the relative angle around its rest angle, optionally
// relaxes it toward rest and clamps it to the allowed range, then derives
// the absolute angle and position from the parent. The parent must already
// be up to date. With recurse set the whole subtree is refreshed top-down.
func (s *Skeleton) UpdateRelative(i int, recurse, relax bool) {
	if i == Root {
		if recurse {
			for _, c := range s.Segs[Root].Children {
				s.UpdateRelative(c, true, relax)
			}
		}
		return
	}
	seg := &s.Segs[i]
	seg.RelAngle = wrapNear(seg.RelAngle, seg.DefAngle)
	if relax {
		half := seg.Range / 2
		seg.RelAngle = clamp(
			seg.DefAngle+(seg.RelAngle-seg.DefAngle)/seg.Stiffness,
			seg.DefAngle-half,
			seg.DefAngle+half,
		)
	}
	parent := &s.Segs[seg.Parent]
	seg.AbsAngle = parent.AbsAngle + seg.RelAngle
	seg.Pos = r2.Add(parent.Pos, polar(seg.AbsAngle, seg.Size))
	if recurse {
		for _, c := range seg.Children {
			s.UpdateRelative(c, true, relax)
		}
	}
}

// Follow is the drag-mode update: the segment keeps its current bearing
// from the parent, is pulled to exactly Size from it, and is then relaxed.
func (s *Skeleton) Follow(i int, recurse bool) {
	if i != Root {
		seg := &s.Segs[i]
		parent := &s.Segs[seg.Parent]
		dir, _ := direction(parent.Pos, seg.Pos)
		seg.Pos = r2.Add(parent.Pos, r2.Scale(seg.Size, dir))
		seg.AbsAngle = angleOf(r2.Sub(seg.Pos, parent.Pos))
		seg.RelAngle = seg.AbsAngle - parent.AbsAngle
		s.UpdateRelative(i, false, true)
	}
	if recurse {
		for _, c := range s.Segs[i].Children {
			s.Follow(c, true)
		}
	}
}

// Draw emits a line from the parent to each segment.
func (s *Skeleton) Draw(i int, cv Canvas, recurse bool) {
	if i != Root {
		seg := &s.Segs[i]
		cv.MoveTo(s.Segs[seg.Parent].Pos)
		cv.LineTo(seg.Pos)
		cv.Stroke()
	}
	if recurse {
		for _, c := range s.Segs[i].Children {
			s.Draw(c, cv, true)
		}
	}
}

// LinkError returns the largest deviation of any link from its size.
func (s *Skeleton) LinkError() float64 {
	var worst float64
	for i := Root + 1; i < len(s.Segs); i++ {
		seg := &s.Segs[i]
		e := math.Abs(Dist(seg.Pos, s.Segs[seg.Parent].Pos) - seg.Size)
		if e > worst {
			worst = e
		}
	}
	return worst
}
