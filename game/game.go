package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critter/camera"
	"github.com/pthm-cable/critter/components"
	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/renderer"
	"github.com/pthm-cable/critter/systems"
	"github.com/pthm-cable/critter/telemetry"
	"github.com/pthm-cable/critter/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	RestorePath    string // snapshot to resume from
	Headless       bool
	StepsPerUpdate int
	Creatures      int // 0 = one
}

// Game holds the complete runtime state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64 // seed of the current generation of creatures

	mapper *ecs.Map7[
		components.Identity,
		components.Rig,
		components.Target,
		components.Gait,
		components.Position,
		components.Rotation,
		components.Motion,
	]
	filter *ecs.Filter7[
		components.Identity,
		components.Rig,
		components.Target,
		components.Gait,
		components.Position,
		components.Rotation,
		components.Motion,
	]

	targets    *systems.TargetSystem
	locomotion *systems.LocomotionSystem
	registry   *systems.SystemRegistry

	// Rendering (nil when headless)
	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	canvas     *renderer.RaylibCanvas
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	inspector  *ui.Inspector

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	events           []telemetry.Event
	statsCallback    func(telemetry.WindowStats)

	// State
	tick           int32
	nextID         uint32
	creatures      int
	paused         bool
	headless       bool
	logStats       bool
	follow         bool
	idle           bool
	showPerf       bool
	stepsPerUpdate int
	snapshotDir    string
	preset         string

	selected     ecs.Entity
	hasSelection bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game and spawns its creatures.
// config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = cfg.Physics.StepsPerUpdate
	}
	creatures := opts.Creatures
	if creatures < 1 {
		creatures = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	registry := systems.NewSystemRegistry()

	g := &Game{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		seed:  opts.Seed,
		mapper: ecs.NewMap7[
			components.Identity,
			components.Rig,
			components.Target,
			components.Gait,
			components.Position,
			components.Rotation,
			components.Motion,
		](world),
		filter: ecs.NewFilter7[
			components.Identity,
			components.Rig,
			components.Target,
			components.Gait,
			components.Position,
			components.Rotation,
			components.Motion,
		](world),
		targets:          systems.NewTargetSystem(world),
		locomotion:       systems.NewLocomotionSystem(world),
		registry:         registry,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(registry.IDs(), cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		creatures:        creatures,
		headless:         opts.Headless,
		logStats:         opts.LogStats,
		follow:           cfg.Camera.Follow,
		idle:             cfg.Scene.ReducedMotion,
		stepsPerUpdate:   steps,
		snapshotDir:      opts.SnapshotDir,
		preset:           cfg.Scene.Preset,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		g.initRendering(cfg)
	}

	if opts.RestorePath != "" {
		if err := g.restore(opts.RestorePath); err != nil {
			g.Unload()
			return nil, fmt.Errorf("restoring %s: %w", opts.RestorePath, err)
		}
		return g, nil
	}
	if err := g.spawnCreatures(); err != nil {
		g.Unload()
		return nil, err
	}
	return g, nil
}

// initRendering sets up the camera, canvas and UI panels.
func (g *Game) initRendering(cfg *config.Config) {
	g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Camera.MinZoom, cfg.Camera.MaxZoom)
	stroke := renderer.ToColor(cfg.Derived.Stroke)
	g.background = renderer.NewBackgroundRenderer(renderer.ToColor(cfg.Derived.Background), stroke, 100)
	g.canvas = renderer.NewRaylibCanvas(g.camera, cfg.Render.StrokeWidth, stroke, cfg.Render.ArcSegments)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-230, 10)
	g.inspector = ui.NewInspector(10, 100, 240)
}

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Update handles input and runs StepsPerUpdate ticks unless paused.
func (g *Game) Update() {
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	}

	if g.follow && g.camera != nil {
		if x, y, ok := g.locomotion.Centroid(); ok {
			g.camera.Follow(x, y, config.Cfg().Camera.FollowLag)
		}
	}
}

// UpdateHeadless runs StepsPerUpdate ticks without touching raylib.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs a single tick.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(systems.PhaseInput)
	g.targets.Update(int(g.tick))

	g.perfCollector.StartPhase(systems.PhaseLocomotion)
	g.locomotion.Step()

	g.perfCollector.StartPhase(systems.PhaseGait)
	start := len(g.events)
	g.events = g.locomotion.ObserveGait(g.tick, g.events)
	for _, ev := range g.events[start:] {
		g.collector.RecordEvent(ev)
	}

	g.perfCollector.StartPhase(systems.PhaseTelemetry)
	g.locomotion.Sample(g.collector)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Unload flushes and closes run output.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.WriteEvents(g.events); err != nil {
			slog.Error("failed to write events", "error", err)
		}
		g.events = g.events[:0]
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Creatures returns the number of live creatures.
func (g *Game) Creatures() int {
	n := 0
	query := g.filter.Query()
	for query.Next() {
		n++
	}
	return n
}
