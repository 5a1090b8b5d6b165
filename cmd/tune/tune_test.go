package main

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/critter/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	if len(def) != pv.Dim() {
		t.Fatalf("default len = %d, want %d", len(def), pv.Dim())
	}
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: round trip %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestParamDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config %v, default %v", spec.Path, got[i], spec.Default)
		}
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Path, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	v := pv.DefaultVector()
	v[2] = 5  // f_res
	v[4] = -1 // r_fric
	pv.ApplyToConfig(cfg, v)

	if cfg.Body.FRes != 0.95 {
		t.Errorf("FRes = %v, want 0.95", cfg.Body.FRes)
	}
	if cfg.Body.RFric != 0 {
		t.Errorf("RFric = %v, want 0", cfg.Body.RFric)
	}
	if cfg.Body.FThresh != 16 {
		t.Errorf("FThresh changed to %v", cfg.Body.FThresh)
	}
}

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		name string
		r    runResult
		want float64
	}{
		{"all reached", runResult{ticks: 500, reached: 5}, 100},
		{"two missed", runResult{ticks: 1000, reached: 3}, (1000 + 2*1000) / 5.0},
		{"diverged", runResult{ticks: 1000, diverged: true}, 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeFitness(tt.r, 1000, 5); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scene.Preset = "tentacle"
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, cfg, []int64{1, 2}, 3000, 3)

	fit, err := fe.Evaluate(context.Background(), pv.DefaultVector())
	if err != nil {
		t.Fatal(err)
	}
	if fe.LastReached() != 3 {
		t.Errorf("reached %v of 3 waypoints", fe.LastReached())
	}
	if fit <= 0 || fit >= 3000 {
		t.Errorf("fitness = %v", fit)
	}
	if cfg.Body.FAccel != 12 {
		t.Errorf("base config modified: FAccel = %v", cfg.Body.FAccel)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, cfg, []int64{1}, 1000, 3)
	if _, err := fe.Evaluate(ctx, pv.DefaultVector()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(3723e9); got != "1h02m03s" {
		t.Errorf("got %q", got)
	}
	if got := formatDuration(65e9); got != "1m05s" {
		t.Errorf("got %q", got)
	}
}
