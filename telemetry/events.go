// Package telemetry provides gait tracking, bookmarking, and pose snapshots.
package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/kinematics"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventLift EventType = iota
	EventPlant
	EventRespawn
)

func (t EventType) String() string {
	switch t {
	case EventLift:
		return "lift"
	case EventPlant:
		return "plant"
	case EventRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// MarshalCSV implements gocsv's TypeMarshaller.
func (t EventType) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType `csv:"type"`
	Tick     int32     `csv:"tick"`
	EntityID uint32    `csv:"entity"`
	System   int       `csv:"system"` // index into the creature's systems, -1 if n/a

	// Foot position at the transition
	X float64 `csv:"x"`
	Y float64 `csv:"y"`
}

// NewGaitEvent creates a lift or plant event for a phase transition.
// Returns false when from and to are the same phase.
func NewGaitEvent(tick int32, entityID uint32, system int, from, to kinematics.Phase, foot r2.Vec) (Event, bool) {
	if from == to {
		return Event{}, false
	}
	typ := EventPlant
	if to == kinematics.Swinging {
		typ = EventLift
	}
	return Event{Type: typ, Tick: tick, EntityID: entityID, System: system, X: foot.X, Y: foot.Y}, true
}

// NewRespawnEvent creates a respawn event.
func NewRespawnEvent(tick int32, entityID uint32) Event {
	return Event{Type: EventRespawn, Tick: tick, EntityID: entityID, System: -1}
}
