package main

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/kinematics"
)

func TestBuildReachStaysPut(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	at := r2.Vec{X: 100, Y: 100}
	c, err := DefaultChainParams().Build(at, cfg.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Systems) != 1 {
		t.Fatalf("systems = %d, want 1", len(c.Systems))
	}
	for i := 0; i < 200; i++ {
		c.Follow(kinematics.Input{Target: r2.Vec{X: 200, Y: 180}})
	}
	if c.Pos != at {
		t.Errorf("body moved to %v", c.Pos)
	}
}

func TestBuildWalkMoves(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultChainParams()
	p.Walk = true
	p.Links = 6
	p.Size = 10
	p.Range = math.Pi
	c, err := p.Build(r2.Vec{}, cfg.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Systems) != 2 {
		t.Fatalf("systems = %d, want 2", len(c.Systems))
	}
	for i := 0; i < 300; i++ {
		c.Follow(kinematics.Input{Target: r2.Vec{X: 400}})
	}
	if c.Pos.X <= 0 {
		t.Errorf("walker did not advance: %v", c.Pos)
	}
}

func TestBuildClampsInputs(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := ChainParams{Links: 0, Size: 5, Speed: 1, Range: 1, Stiffness: 0}
	c, err := p.Build(r2.Vec{}, cfg.Body)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(c.Systems) != 1 {
		t.Errorf("systems = %d, want 1", len(c.Systems))
	}
}
