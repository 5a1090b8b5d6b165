package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
)

// ChainParams holds the slider values for the previewed chain.
type ChainParams struct {
	Links     int
	Size      float32
	Speed     float32
	Range     float32
	Stiffness float32
	Walk      bool // legs on a moving body instead of a fixed reaching chain
}

// DefaultChainParams matches the tentacle preset.
func DefaultChainParams() ChainParams {
	return ChainParams{Links: 32, Size: 8, Speed: 20, Range: 2, Stiffness: 1}
}

// Build constructs the preview creature at the given point. In reach mode
// the body stays put and a single limb chases the target. In walk mode the
// body follows the target on bc and a pair of legs steps beside it.
func (p ChainParams) Build(at r2.Vec, bc config.BodyConfig) (*kinematics.Creature, error) {
	body := kinematics.BodyParams{
		Start:   at,
		FRes:    bc.FRes,
		FThresh: bc.FThresh,
		RRes:    bc.RRes,
		RThresh: bc.RThresh,
	}
	if p.Walk {
		body.FAccel, body.FFric = bc.FAccel, bc.FFric
		body.RAccel, body.RFric = bc.RAccel, bc.RFric
	}
	c, err := kinematics.NewCreature(body, nil)
	if err != nil {
		return nil, err
	}
	seg := kinematics.SegmentParams{
		Size:      float64(p.Size),
		Range:     float64(p.Range),
		Stiffness: math.Max(1, float64(p.Stiffness)),
	}
	links := max(1, p.Links)
	limb := kinematics.LimbParams{Length: links, Speed: float64(p.Speed)}

	if !p.Walk {
		end, err := chain(c, kinematics.Root, links, seg, 0)
		if err != nil {
			return nil, err
		}
		_, err = c.AddLimb(end, limb)
		return c, err
	}

	for _, side := range []float64{-1, 1} {
		end, err := chain(c, kinematics.Root, links, seg, side*math.Pi/2)
		if err != nil {
			return nil, err
		}
		if _, err := c.AddLeg(end, kinematics.LegParams{LimbParams: limb}); err != nil {
			return nil, fmt.Errorf("leg: %w", err)
		}
	}
	return c, nil
}

// chain hangs n links off parent, the first one turned by angle.
func chain(c *kinematics.Creature, parent, n int, seg kinematics.SegmentParams, angle float64) (int, error) {
	node := parent
	for i := 0; i < n; i++ {
		s := seg
		if i == 0 {
			s.Angle = angle
		}
		next, err := c.AddSegment(node, s)
		if err != nil {
			return node, fmt.Errorf("link %d: %w", i, err)
		}
		node = next
	}
	return node, nil
}
