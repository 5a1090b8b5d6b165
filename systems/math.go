package systems

import "github.com/pthm-cable/critter/components"

// centroid returns the mean of the positions, or false when there are none.
func centroid(ps []components.Position) (x, y float32, ok bool) {
	if len(ps) == 0 {
		return 0, 0, false
	}
	for _, p := range ps {
		x += p.X
		y += p.Y
	}
	n := float32(len(ps))
	return x / n, y / n, true
}
