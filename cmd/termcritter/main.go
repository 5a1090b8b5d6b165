// Terminal front end: one creature drawn in character cells, steered with
// the mouse, with a thump for every footfall.
//
// Usage: go run ./cmd/termcritter [-config file] [-sound]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/critter/config"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = scene.seed, then time)")
	fps := flag.Int("fps", 30, "Ticks per second")
	sound := flag.Bool("sound", false, "Play a sound on every footfall")
	volume := flag.Float64("volume", 0.5, "Footfall volume in [0, 1]")
	logPath := flag.String("log", "", "Write JSON logs to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The terminal belongs to tcell, so logs go to a file or nowhere.
	logOut := os.DevNull
	if *logPath != "" {
		logOut = *logPath
	}
	lf, err := os.OpenFile(logOut, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer lf.Close()
	slog.SetDefault(slog.New(slog.NewJSONHandler(lf, nil)))

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Scene.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	footfalls := NewFootfalls(*volume)
	if *sound {
		if err := footfalls.Start(); err != nil {
			slog.Warn("audio unavailable, running silent", "error", err)
		}
	}
	defer footfalls.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("failed to init screen: %v", err)
	}
	screen.EnableMouse()

	app, err := NewApp(screen, cfg, rngSeed, footfalls)
	if err != nil {
		screen.Fini()
		log.Fatalf("failed to start: %v", err)
	}
	slog.Info("starting", "preset", cfg.Scene.Preset, "seed", rngSeed, "fps", *fps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	app.Run(ctx, *fps)
	stop()
	screen.Fini()
	slog.Info("stopped", "ticks", app.tick)
}
