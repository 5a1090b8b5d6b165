package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/critter/config"
	"github.com/pthm-cable/critter/input"
	"github.com/pthm-cable/critter/scene"
)

// FitnessEvaluator runs headless waypoint courses and scores them.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	seeds      []int64
	maxTicks   int
	waypoints  int

	mu          sync.Mutex
	lastReached float64 // mean waypoints reached in the most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, seeds []int64, maxTicks, waypoints int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		seeds:      seeds,
		maxTicks:   maxTicks,
		waypoints:  max(1, waypoints),
	}
}

// LastReached returns the mean waypoints reached in the last evaluation.
func (fe *FitnessEvaluator) LastReached() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastReached
}

// runResult holds the outcome of one course.
type runResult struct {
	ticks    int // ticks spent, maxTicks if the course was not finished
	reached  int
	diverged bool // body state went non-finite
}

// Evaluate computes fitness for raw parameter values (lower = better): the
// mean over seeds of ticks per waypoint, with unreached waypoints charged
// a full run each. Seeds run in parallel.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	g, gctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			r, err := runCourse(gctx, cfg, seed, fe.maxTicks, fe.waypoints)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return math.Inf(1), err
	}

	var total, reached float64
	for _, r := range results {
		total += computeFitness(r, fe.maxTicks, fe.waypoints)
		reached += float64(r.reached)
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastReached = reached / n
	fe.mu.Unlock()

	return total / n, nil
}

// computeFitness scores one course as ticks per waypoint.
func computeFitness(r runResult, maxTicks, waypoints int) float64 {
	if r.diverged {
		return float64(maxTicks) * float64(waypoints+1)
	}
	missed := max(0, waypoints-r.reached)
	return (float64(r.ticks) + float64(missed*maxTicks)) / float64(waypoints)
}

// runCourse builds the configured creature and chases a ring of waypoints
// around its start until all are reached or maxTicks pass.
func runCourse(ctx context.Context, cfg *config.Config, seed int64, maxTicks, waypoints int) (runResult, error) {
	rng := rand.New(rand.NewSource(seed))
	c, err := scene.FromConfig(cfg, r2.Vec{}, rng)
	if err != nil {
		return runResult{}, err
	}
	course := &input.Waypoints{
		Points:    input.Ring(r2.Vec{}, cfg.Wander.Radius, waypoints, rng.Float64()*2*math.Pi),
		Tolerance: 2 * cfg.Body.FThresh,
	}

	tick := 0
	for ; tick < maxTicks && course.Reached < waypoints; tick++ {
		if tick%256 == 0 {
			if err := ctx.Err(); err != nil {
				return runResult{}, err
			}
		}
		course.Track(c.Pos)
		c.Follow(course.Next(tick))
		if math.IsNaN(c.Pos.X) || math.IsNaN(c.Pos.Y) || math.IsInf(c.Pos.X, 0) || math.IsInf(c.Pos.Y, 0) {
			return runResult{ticks: maxTicks, reached: course.Reached, diverged: true}, nil
		}
	}
	return runResult{ticks: tick, reached: min(course.Reached, waypoints)}, nil
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
