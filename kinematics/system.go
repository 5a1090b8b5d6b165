package kinematics

// Kind tags the variant held by a System.
type Kind uint8

const (
	KindLimb Kind = iota
	KindLeg
)

func (k Kind) String() string {
	if k == KindLeg {
		return "leg"
	}
	return "limb"
}

// System is a limb controller attached to a creature: either a plain limb
// chasing the external target or a leg stepping toward its own foothold.
// Exactly one of Limb and Leg is set, matching Kind.
type System struct {
	Kind Kind
	Limb *Limb
	Leg  *Leg
}

// Advance runs the variant's per-tick update.
func (s *System) Advance(sk *Skeleton, in Input) {
	switch s.Kind {
	case KindLimb:
		s.Limb.MoveTo(sk, in.Target)
	case KindLeg:
		s.Leg.Update(sk)
	}
}

// Phase reports the gait phase. Plain limbs are always planted.
func (s *System) Phase() Phase {
	if s.Kind == KindLeg {
		return s.Leg.Step
	}
	return Planted
}

// Chain returns the underlying IK chain.
func (s *System) Chain() *Limb {
	if s.Kind == KindLeg {
		return &s.Leg.Limb
	}
	return s.Limb
}
