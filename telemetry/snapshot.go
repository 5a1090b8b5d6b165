package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/kinematics"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds a creature's full pose so a run can be inspected or
// resumed from the same seed and preset.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Preset  string `json:"preset"`

	Tick int32 `json:"tick"`

	Creatures []CreatureState `json:"creatures"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CreatureState holds one creature's body and skeleton state.
type CreatureState struct {
	ID uint32 `json:"id"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AbsAngle float64 `json:"abs_angle"`
	FSpeed   float64 `json:"f_speed"`
	Speed    float64 `json:"speed"`
	RSpeed   float64 `json:"r_speed"`

	Segments []SegmentState `json:"segments"`
	Systems  []SystemState  `json:"systems"`
}

// SegmentState is the mutable part of a segment. Topology is rebuilt from
// the preset, so only Parent is kept as a consistency check.
type SegmentState struct {
	Parent   int     `json:"parent"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AbsAngle float64 `json:"abs_angle"`
	RelAngle float64 `json:"rel_angle"`
}

// SystemState holds a system's gait state.
type SystemState struct {
	Kind        string  `json:"kind"`
	Phase       string  `json:"phase"`
	GoalX       float64 `json:"goal_x,omitempty"`
	GoalY       float64 `json:"goal_y,omitempty"`
	Forwardness float64 `json:"forwardness,omitempty"`
}

// CaptureCreature records the creature's current state.
func CaptureCreature(id uint32, c *kinematics.Creature) CreatureState {
	cs := CreatureState{
		ID:       id,
		X:        c.Pos.X,
		Y:        c.Pos.Y,
		AbsAngle: c.AbsAngle,
		FSpeed:   c.FSpeed,
		Speed:    c.Speed,
		RSpeed:   c.RSpeed,
		Segments: make([]SegmentState, len(c.Skel.Segs)),
		Systems:  make([]SystemState, len(c.Systems)),
	}
	for i := range c.Skel.Segs {
		seg := &c.Skel.Segs[i]
		cs.Segments[i] = SegmentState{
			Parent:   seg.Parent,
			X:        seg.Pos.X,
			Y:        seg.Pos.Y,
			AbsAngle: seg.AbsAngle,
			RelAngle: seg.RelAngle,
		}
	}
	for i := range c.Systems {
		sys := &c.Systems[i]
		ss := SystemState{Kind: sys.Kind.String(), Phase: sys.Phase().String()}
		if sys.Kind == kinematics.KindLeg {
			ss.GoalX, ss.GoalY = sys.Leg.Goal.X, sys.Leg.Goal.Y
			ss.Forwardness = sys.Leg.Forwardness
		}
		cs.Systems[i] = ss
	}
	return cs
}

// Apply restores the captured state onto a creature built from the same
// preset. It fails if the topology differs.
func (cs *CreatureState) Apply(c *kinematics.Creature) error {
	if len(cs.Segments) != len(c.Skel.Segs) || len(cs.Systems) != len(c.Systems) {
		return fmt.Errorf("snapshot has %d segments and %d systems, creature has %d and %d",
			len(cs.Segments), len(cs.Systems), len(c.Skel.Segs), len(c.Systems))
	}
	for i, ss := range cs.Segments {
		if ss.Parent != c.Skel.Segs[i].Parent {
			return fmt.Errorf("segment %d parent %d, creature has %d", i, ss.Parent, c.Skel.Segs[i].Parent)
		}
	}
	for i, ss := range cs.Systems {
		if ss.Kind != c.Systems[i].Kind.String() {
			return fmt.Errorf("system %d is %s, creature has %s", i, ss.Kind, c.Systems[i].Kind)
		}
	}

	c.Pos = r2.Vec{X: cs.X, Y: cs.Y}
	c.AbsAngle = cs.AbsAngle
	c.FSpeed, c.Speed, c.RSpeed = cs.FSpeed, cs.Speed, cs.RSpeed
	for i, ss := range cs.Segments {
		seg := &c.Skel.Segs[i]
		seg.Pos = r2.Vec{X: ss.X, Y: ss.Y}
		seg.AbsAngle = ss.AbsAngle
		seg.RelAngle = ss.RelAngle
	}
	for i, ss := range cs.Systems {
		sys := &c.Systems[i]
		if sys.Kind != kinematics.KindLeg {
			continue
		}
		sys.Leg.Goal = r2.Vec{X: ss.GoalX, Y: ss.GoalY}
		sys.Leg.Forwardness = ss.Forwardness
		sys.Leg.Step = kinematics.Planted
		if ss.Phase == kinematics.Swinging.String() {
			sys.Leg.Step = kinematics.Swinging
		}
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
