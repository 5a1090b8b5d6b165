package components

// Position mirrors the creature body position in float32 for the camera
// and HUD.
type Position struct {
	X, Y float32
}

// Rotation mirrors the body heading and the turn applied last tick.
type Rotation struct {
	Heading float32 // radians
	AngVel  float32 // radians per tick
}

// Motion mirrors forward speeds and footing.
type Motion struct {
	FSpeed  float32
	Speed   float32
	Planted float32 // fraction of systems planted
}
