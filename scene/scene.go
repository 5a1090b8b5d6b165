// Package scene builds the preset creatures: strings, tentacles, arms,
// squids and lizards of varying leg count.
package scene

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
)

// Preset names accepted by FromConfig.
const (
	PresetRandom   = "random"
	PresetLizard   = "lizard"
	PresetSquid    = "squid"
	PresetTentacle = "tentacle"
	PresetArm      = "arm"
	PresetSimple   = "simple"
)

// Presets lists the concrete presets in menu order.
var Presets = []string{PresetLizard, PresetSquid, PresetTentacle, PresetArm, PresetSimple}

// Shape is the topology choice for the sized presets.
type Shape struct {
	Size float64
	Legs int
	Tail int
}

// Pick chooses a lizard topology. Reduced motion gets a fixed four-legged
// body; otherwise the leg count is uniform in [1, 10] and the tail and size
// follow from it.
func Pick(rng *rand.Rand, reducedMotion bool) Shape {
	legs := 4
	tail := 10
	if !reducedMotion {
		legs = 1 + rng.Intn(10)
		tail = 8 + legs*2
	}
	return Shape{Size: 8 / math.Sqrt(float64(legs)), Legs: legs, Tail: tail}
}

// resolve fills zero fields of the configured shape.
func resolve(sc config.SceneConfig, rng *rand.Rand) Shape {
	s := Pick(rng, sc.ReducedMotion)
	if sc.Legs > 0 {
		s.Legs = sc.Legs
		s.Tail = 8 + s.Legs*2
		s.Size = 8 / math.Sqrt(float64(s.Legs))
	}
	if sc.Tail > 0 {
		s.Tail = sc.Tail
	}
	if sc.Size > 0 {
		s.Size = sc.Size
	}
	return s
}

// FromConfig builds the configured preset at the given position.
func FromConfig(cfg *config.Config, at r2.Vec, rng *rand.Rand) (*kinematics.Creature, error) {
	preset := cfg.Scene.Preset
	switch preset {
	case PresetRandom, PresetLizard, "":
		return Lizard(at, cfg.Body, cfg.Limb, resolve(cfg.Scene, rng), rng)
	case PresetSquid:
		s := resolve(cfg.Scene, rng)
		return Squid(at, cfg.Body, cfg.Limb, s.Size, s.Legs, rng)
	case PresetTentacle:
		return Tentacle(at, cfg.Body, cfg.Limb)
	case PresetArm:
		return Arm(at, cfg.Body, cfg.Limb)
	case PresetSimple:
		return Simple(at, cfg.Body)
	default:
		return nil, fmt.Errorf("unknown scene preset %q", preset)
	}
}

// builder adds segments until the first error, after which every call is a
// no-op. The error is reported once by done.
type builder struct {
	c   *kinematics.Creature
	err error
}

func newBuilder(p kinematics.BodyParams, rng *rand.Rand) *builder {
	c, err := kinematics.NewCreature(p, rng)
	return &builder{c: c, err: err}
}

func (b *builder) seg(parent int, size, angle, span, stiffness float64) int {
	if b.err != nil {
		return parent
	}
	i, err := b.c.AddSegment(parent, kinematics.SegmentParams{
		Size: size, Angle: angle, Range: span, Stiffness: stiffness,
	})
	if err != nil {
		b.err = fmt.Errorf("segment under %d: %w", parent, err)
		return parent
	}
	return i
}

func (b *builder) limb(end, length int, speed float64) {
	if b.err != nil {
		return
	}
	if _, err := b.c.AddLimb(end, kinematics.LimbParams{Length: length, Speed: speed}); err != nil {
		b.err = fmt.Errorf("limb at %d: %w", end, err)
	}
}

func (b *builder) leg(end, length int, speed float64) {
	if b.err != nil {
		return
	}
	if _, err := b.c.AddLeg(end, kinematics.LegParams{LimbParams: kinematics.LimbParams{Length: length, Speed: speed}}); err != nil {
		b.err = fmt.Errorf("leg at %d: %w", end, err)
	}
}

func (b *builder) done(name string) (*kinematics.Creature, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building %s: %w", name, b.err)
	}
	return b.c, nil
}

// body converts config coefficients to body parameters. accel and fric
// replace the forward drive and friction.
func body(at r2.Vec, bc config.BodyConfig, accel, fric float64) kinematics.BodyParams {
	return kinematics.BodyParams{
		Start:   at,
		FAccel:  accel,
		FFric:   fric,
		FRes:    bc.FRes,
		FThresh: bc.FThresh,
		RAccel:  bc.RAccel,
		RFric:   bc.RFric,
		RRes:    bc.RRes,
		RThresh: bc.RThresh,
	}
}

// Simple is a bare 128-link string trailing the head.
func Simple(at r2.Vec, bc config.BodyConfig) (*kinematics.Creature, error) {
	b := newBuilder(body(at, bc, bc.FAccel, bc.FFric), nil)
	node := kinematics.Root
	for i := 0; i < 128; i++ {
		node = b.seg(node, 8, 0, math.Pi/2, 1)
	}
	return b.done(PresetSimple)
}

// Tentacle is a 32-link chain whose tip reaches for the target.
func Tentacle(at r2.Vec, bc config.BodyConfig, lc config.LimbConfig) (*kinematics.Creature, error) {
	b := newBuilder(body(at, bc, bc.FAccel, bc.FFric), nil)
	node := kinematics.Root
	for i := 0; i < 32; i++ {
		node = b.seg(node, 8, 0, 2, 1)
	}
	b.limb(node, 32, lc.TentacleSpeed)
	return b.done(PresetTentacle)
}

// Arm is three long links reaching for the target.
func Arm(at r2.Vec, bc config.BodyConfig, lc config.LimbConfig) (*kinematics.Creature, error) {
	b := newBuilder(body(at, bc, bc.FAccel, bc.FFric), nil)
	node := kinematics.Root
	for i := 0; i < 3; i++ {
		node = b.seg(node, 80, 0, math.Pi, 1)
	}
	b.limb(node, 3, lc.ArmSpeed)
	return b.done(PresetArm)
}

// Squid fans legs of 32 links across the front quarter-circle.
func Squid(at r2.Vec, bc config.BodyConfig, lc config.LimbConfig, size float64, legs int, rng *rand.Rand) (*kinematics.Creature, error) {
	if legs < 1 {
		return nil, fmt.Errorf("squid needs at least one leg, got %d", legs)
	}
	const joints = 32
	b := newBuilder(body(at, bc, size*bc.SizeAccel, size*bc.SizeFric*1.5), rng)
	for i := 0; i < legs; i++ {
		var spread float64
		if legs > 1 {
			spread = math.Pi / 2 * (float64(i)/float64(legs-1) - 0.5)
		}
		node := kinematics.Root
		for j := 0; j < joints; j++ {
			angle := 0.0
			if j == 0 {
				angle = spread
			}
			node = b.seg(node, size*64/joints, angle, math.Pi, 1.2)
		}
		b.leg(node, joints, size*lc.SquidSpeed)
	}
	return b.done(PresetSquid)
}

// Lizard is a spine of neck, ribbed torso and tapered tail with a pair of
// three-link legs per torso section.
func Lizard(at r2.Vec, bc config.BodyConfig, lc config.LimbConfig, shape Shape, rng *rand.Rand) (*kinematics.Creature, error) {
	if shape.Legs < 1 || shape.Size <= 0 {
		return nil, fmt.Errorf("lizard needs legs and size, got %+v", shape)
	}
	s := shape.Size
	b := newBuilder(body(at, bc, s*bc.SizeAccel, s*bc.SizeFric), rng)

	spine := kinematics.Root
	// Neck with whiskers.
	for i := 0; i < 6; i++ {
		spine = b.seg(spine, s*4, 0, math.Pi*2/3, 1.1)
		for _, side := range []float64{-1, 1} {
			node := b.seg(spine, s*3, side, 0.1, 2)
			for k := 0; k < 3; k++ {
				node = b.seg(node, s*0.1, -side*0.1, 0.1, 2)
			}
		}
	}

	for i := 0; i < shape.Legs; i++ {
		if i > 0 {
			// Vertebrae and ribs.
			for j := 0; j < 6; j++ {
				spine = b.seg(spine, s*4, 0, math.Pi/2, 1.5)
				for _, side := range []float64{-1, 1} {
					node := b.seg(spine, s*3, side*math.Pi/2, 0.1, 1.5)
					for k := 0; k < 3; k++ {
						node = b.seg(node, s*3, -side*0.3, 0.1, 2)
					}
				}
			}
		}
		for _, side := range []float64{-1, 1} {
			hip := b.seg(spine, s*12, side*math.Pi/4, 0, 8)
			humerus := b.seg(hip, s*16, -side*math.Pi/4, 2*math.Pi, 1)
			forearm := b.seg(humerus, s*16, side*math.Pi/2, math.Pi, 2)
			for k := 0; k < 4; k++ {
				b.seg(forearm, s*4, (float64(k)/3-0.5)*math.Pi/2, 0.1, 4)
			}
			b.leg(forearm, 3, s*lc.LizardSpeed)
		}
	}

	for i := 0; i < shape.Tail; i++ {
		spine = b.seg(spine, s*4, 0, math.Pi*2/3, 1.1)
		taper := float64(shape.Tail-i) / float64(shape.Tail)
		for _, side := range []float64{-1, 1} {
			node := b.seg(spine, s*3, side, 0.1, 2)
			for k := 0; k < 3; k++ {
				node = b.seg(node, s*3*taper, -side*0.1, 0.1, 2)
			}
		}
	}
	return b.done(PresetLizard)
}
