package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critter/components"
)

// InspectorData holds the component values of the inspected creature.
type InspectorData struct {
	ID       uint32
	Preset   string
	Position *components.Position
	Rotation *components.Rotation
	Motion   *components.Motion
	Gait     *components.Gait
}

// Inspector renders the creature inspection panel from the component
// field descriptors.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel and returns its bottom edge.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	fields := append(components.MotionFieldDescriptors(), components.GaitFieldDescriptors()...)
	groups := components.MotionGroups()

	height := padding*2 + r.Theme.LineHeight*int32(2+len(fields)+len(groups)) + 2*int32(len(fields))
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + padding
	y := ins.y + padding
	width := ins.width - padding*2

	rl.DrawText(fmt.Sprintf("Creature #%d (%s)", data.ID, data.Preset), x, y, r.Theme.HeaderFontSize, rl.White)
	y += r.Theme.LineHeight + 4

	for _, group := range groups {
		y = r.DrawSectionHeader(x, y, group)
		for _, fd := range fields {
			if fd.Group != group {
				continue
			}
			value := components.GetMotionValue(data.Position, data.Rotation, data.Motion, data.Gait, fd.ID)
			switch {
			case fd.IsBar && fd.IsCentered:
				y = r.DrawCenteredBar(x, y, fd.Label, value, fd.Min, fd.Max, width)
			case fd.IsBar:
				y = r.DrawBar(x, y, fd.Label, normalize(value, fd.Min, fd.Max), width)
			default:
				y = r.DrawLabelValue(x, y, fd.Label, fmt.Sprintf(fd.Format, value), width)
			}
		}
	}
	return ins.y + height
}

// normalize maps v from [lo, hi] to [0, 1].
func normalize(v, lo, hi float32) float32 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
