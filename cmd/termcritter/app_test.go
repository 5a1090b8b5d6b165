package main

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
)

func newTestApp(t *testing.T, preset string) (*App, tcell.SimulationScreen) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scene.Preset = preset
	cfg.Scene.Legs = 4
	cfg.Wander.Enabled = false

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	app, err := NewApp(screen, cfg, 7, NewFootfalls(0.5))
	if err != nil {
		t.Fatal(err)
	}
	return app, screen
}

func TestAppFollowsPointer(t *testing.T) {
	app, _ := newTestApp(t, "tentacle")
	app.handleMouse(70, 12, true)
	goal := app.target.Pointer
	start := kinematics.Dist(app.creature.Pos, goal)

	for i := 0; i < 300; i++ {
		app.Step()
	}
	if d := kinematics.Dist(app.creature.Pos, goal); d >= start/4 {
		t.Errorf("distance to pointer %v, started at %v", d, start)
	}

	app.handleMouse(0, 0, false)
	if app.target.Held {
		t.Error("pointer still held after release")
	}
	in := app.target.Resolve(app.tick)
	if !in.Idle {
		t.Errorf("released pointer without a source should idle, got %+v", in)
	}
}

func TestAppCountsFootfalls(t *testing.T) {
	app, _ := newTestApp(t, "lizard")
	app.target.Held = true
	app.target.Pointer = r2.Vec{X: 2000}

	for i := 0; i < 600; i++ {
		app.Step()
	}
	if app.gait.Lifts == 0 || app.gait.Plants == 0 {
		t.Errorf("lifts=%d plants=%d, want both > 0", app.gait.Lifts, app.gait.Plants)
	}
}

func TestAppDraw(t *testing.T) {
	app, screen := newTestApp(t, "tentacle")
	app.Draw()

	w, h := screen.Size()
	var body int
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r == app.canvas.Rune {
				body++
			}
		}
	}
	if body == 0 {
		t.Error("no creature cells drawn")
	}
	if r, _, _, _ := screen.GetContent(1, 0); r != 't' {
		t.Errorf("status line starts with %q, want preset name", r)
	}
}

func TestAppKeys(t *testing.T) {
	app, _ := newTestApp(t, "tentacle")

	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		keep bool
	}{
		{"pause", tcell.KeyRune, ' ', true},
		{"wander", tcell.KeyRune, 'w', true},
		{"respawn", tcell.KeyRune, 'r', true},
		{"quit", tcell.KeyRune, 'q', false},
		{"escape", tcell.KeyEscape, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := app.handleKey(tt.key, tt.r); got != tt.keep {
				t.Errorf("handleKey = %v, want %v", got, tt.keep)
			}
		})
	}
	if !app.paused {
		t.Error("space did not pause")
	}
	if !app.wander || app.target.Source == nil {
		t.Error("w did not enable wander")
	}
	if app.seed != 8 {
		t.Errorf("seed after respawn = %d, want 8", app.seed)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	app, screen := newTestApp(t, "tentacle")
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	finished := make(chan struct{})
	go func() {
		app.Run(ctx, 60)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if ctx.Err() != nil {
		t.Error("Run returned on the deadline, not the key")
	}
}

// repeatSource never runs dry.
type repeatSource struct{ ev tcell.Event }

func (s repeatSource) PollEvent() tcell.Event { return s.ev }

func TestPollEventsStopsWhenDone(t *testing.T) {
	src := repeatSource{ev: tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)}
	events := make(chan tcell.Event)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		pollEvents(src, events, done)
		close(finished)
	}()

	<-events
	close(done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("poller still blocked on send after done closed")
	}
}

func TestThumpDecays(t *testing.T) {
	s := newThump(1000, 10*time.Millisecond, sampleRate)
	buf := make([][2]float64, 1024)

	total := 0
	var peak, tail float64
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			v := math.Abs(buf[i][0])
			if total+i < 100 {
				peak = math.Max(peak, v)
			} else {
				tail = math.Max(tail, v)
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if total != sampleRate.N(10*time.Millisecond) {
		t.Errorf("streamed %d samples, want %d", total, sampleRate.N(10*time.Millisecond))
	}
	if peak <= 0 {
		t.Error("silent onset")
	}
	if tail >= peak {
		t.Errorf("tail %v not below peak %v", tail, peak)
	}
}

func TestFootfallsSilentUntilStarted(t *testing.T) {
	f := NewFootfalls(1)
	if f.Step(1, 0) {
		t.Error("Step queued a sound before Start")
	}
	f.Close()
}
