package game

import (
	"fmt"
	"io"

	"github.com/pthm-cable/critter/kinematics"
)

// logWriter is the destination for the human-readable world log.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log line.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logWorldState writes one line per creature: pose, speeds and footing.
func (g *Game) logWorldState() {
	Logf("=== World @ Tick %d | seed %d | %s ===", g.tick, g.seed, g.preset)
	g.forEachCreature(func(id uint32, c *kinematics.Creature) {
		swinging := 0
		for i := range c.Systems {
			if c.Systems[i].Phase() == kinematics.Swinging {
				swinging++
			}
		}
		Logf("  #%-4d pos=(%8.1f,%8.1f) heading=%+5.2f speed=%5.2f turn=%+6.3f swinging=%d/%d linkErr=%.1e",
			id, c.Pos.X, c.Pos.Y, c.AbsAngle, c.Speed, c.RSpeed, swinging, len(c.Systems), c.Skel.LinkError())
	})
}
