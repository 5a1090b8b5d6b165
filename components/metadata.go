package components

import "math"

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID         string  // Unique identifier
	Label      string  // Display name
	Format     string  // Printf format (e.g., "%.2f")
	Min        float32 // Minimum value (for bars)
	Max        float32 // Maximum value (for bars)
	IsCentered bool    // True for centered bar display
	IsBar      bool    // True to render as progress bar
	Group      string  // Logical grouping
}

// MotionFieldDescriptors returns metadata for the body's motion state.
// Field IDs must match cases in GetMotionValue().
func MotionFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "speed", Label: "Speed", Format: "%.2f", Min: 0, Max: 20, IsBar: true, Group: "body"},
		{ID: "fspeed", Label: "Drive", Format: "%.2f", Min: 0, Max: 20, IsBar: true, Group: "body"},
		{ID: "heading", Label: "Heading", Format: "%+.2f", Min: -math.Pi, Max: math.Pi, IsCentered: true, IsBar: true, Group: "body"},
		{ID: "turn", Label: "Turn", Format: "%+.3f", Min: -0.5, Max: 0.5, IsCentered: true, IsBar: true, Group: "body"},
		{ID: "planted", Label: "Planted", Format: "%.2f", Min: 0, Max: 1, IsBar: true, Group: "gait"},
	}
}

// GaitFieldDescriptors returns metadata for gait counters.
func GaitFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "lifts", Label: "Lifts", Format: "%.0f", Group: "gait"},
		{ID: "plants", Label: "Plants", Format: "%.0f", Group: "gait"},
	}
}

// MotionGroups returns the logical groupings in display order.
func MotionGroups() []string {
	return []string{"body", "gait"}
}

// GetMotionValue extracts a field value by ID.
func GetMotionValue(pos *Position, rot *Rotation, mot *Motion, gait *Gait, fieldID string) float32 {
	switch fieldID {
	case "speed":
		return mot.Speed
	case "fspeed":
		return mot.FSpeed
	case "heading":
		return rot.Heading
	case "turn":
		return rot.AngVel
	case "planted":
		return mot.Planted
	case "lifts":
		return float32(gait.Lifts)
	case "plants":
		return float32(gait.Plants)
	case "x":
		return pos.X
	case "y":
		return pos.Y
	}
	return 0
}
