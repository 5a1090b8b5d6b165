package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/input"
	"github.com/pthm-cable/critter/kinematics"
	"github.com/pthm-cable/critter/renderer"
	"github.com/pthm-cable/critter/scene"
)

// App drives one creature on a terminal screen.
type App struct {
	screen tcell.Screen
	cfg    *config.Config
	canvas *renderer.TermCanvas
	sound  *Footfalls

	creature *kinematics.Creature
	target   components.Target
	gait     components.Gait
	steps    []components.Transition

	seed   int64
	tick   int
	paused bool
	wander bool
}

// NewApp builds the configured creature at the world origin.
func NewApp(screen tcell.Screen, cfg *config.Config, seed int64, sound *Footfalls) (*App, error) {
	a := &App{
		screen: screen,
		cfg:    cfg,
		sound:  sound,
		seed:   seed,
		wander: cfg.Wander.Enabled,
	}
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(cfg.Derived.Stroke[0]), int32(cfg.Derived.Stroke[1]), int32(cfg.Derived.Stroke[2])))
	a.canvas = renderer.NewTermCanvas(screen, cfg.Render.CellSize, style)
	if err := a.respawn(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) respawn() error {
	c, err := scene.FromConfig(a.cfg, r2.Vec{}, rand.New(rand.NewSource(a.seed)))
	if err != nil {
		return fmt.Errorf("building creature: %w", err)
	}
	a.creature = c
	a.gait.Reset(c)
	a.target = components.Target{Idle: a.cfg.Scene.ReducedMotion}
	a.setSource()
	return nil
}

func (a *App) setSource() {
	if a.wander {
		a.target.Source = input.NewWander(a.creature.Pos, a.cfg.Wander.Radius, a.cfg.Wander.Frequency, a.seed)
	} else {
		a.target.Source = nil
	}
}

// handleKey applies a key press and reports whether the app keeps running.
func (a *App) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case ' ':
			a.paused = !a.paused
		case 'r':
			a.seed++
			if err := a.respawn(); err != nil {
				slog.Error("respawn failed", "seed", a.seed, "error", err)
			}
		case 'w':
			a.wander = !a.wander
			a.setSource()
		}
	}
	return true
}

// handleMouse steers toward the cell under the pointer while a button is
// held; releasing it hands control back to the source.
func (a *App) handleMouse(x, y int, held bool) {
	a.target.Held = held
	if held {
		a.target.Pointer = a.canvas.World(x, y)
	}
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// Step advances one tick and plays a footfall for every plant.
func (a *App) Step() {
	a.creature.Follow(a.target.Resolve(a.tick))
	a.steps = a.gait.Observe(a.creature, a.steps[:0])
	for _, t := range a.steps {
		if t.To != kinematics.Planted {
			continue
		}
		pitch := 1 + 0.15*float64(t.System%4)
		a.sound.Step(pitch, a.side(t.Foot))
	}
	a.tick++
}

// side is -1 for a foot left of the heading and 1 for the right.
func (a *App) side(foot r2.Vec) float64 {
	d := r2.Sub(foot, a.creature.Pos)
	h := r2.Vec{X: math.Cos(a.creature.AbsAngle), Y: math.Sin(a.creature.AbsAngle)}
	if h.X*d.Y-h.Y*d.X < 0 {
		return -0.6
	}
	return 0.6
}

// Draw renders the creature centred on screen with a status line.
func (a *App) Draw() {
	a.screen.Clear()
	a.canvas.CenterOn(a.creature.Pos)
	a.creature.Draw(a.canvas)

	status := fmt.Sprintf(" %s  tick %d  speed %.1f  lifts %d  plants %d ",
		a.cfg.Scene.Preset, a.tick, a.creature.Speed, a.gait.Lifts, a.gait.Plants)
	if a.paused {
		status += " [paused]"
	}
	if a.wander {
		status += " [wander]"
	}
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, r := range status {
		a.screen.SetContent(i, 0, r, nil, dim)
	}
	a.screen.Show()
}

type eventSource interface {
	PollEvent() tcell.Event
}

// pollEvents forwards events until the source closes or done is closed.
func pollEvents(src eventSource, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := src.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Run polls events on a goroutine and steps on a ticker until ctx ends or
// a quit key arrives.
func (a *App) Run(ctx context.Context, fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(a.screen, events, done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			if !a.paused {
				a.Step()
			}
			a.Draw()
		}
	}
}
