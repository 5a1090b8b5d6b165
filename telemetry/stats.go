package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Creature count at window end
	Creatures int `csv:"creatures"`

	// Gait events during window
	Lifts    int     `csv:"lifts"`
	Plants   int     `csv:"plants"`
	Respawns int     `csv:"respawns"`
	StepRate float64 `csv:"step_rate"` // lifts per simulated second

	// Body speed per tick
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Share of systems planted per tick
	PlantedMean float64 `csv:"planted_mean"`
	PlantedMin  float64 `csv:"planted_min"`

	// Largest deviation of any link from its length
	LinkErrMax float64 `csv:"link_err_max"`

	// Path length covered by all bodies
	Distance float64 `csv:"distance"`
}

// Quantile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpread calculates mean, median, p90 and max of values.
func ComputeSpread(values []float64) (mean, p50, p90, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Quantile(sorted, 0.5), Quantile(sorted, 0.9), sorted[n-1]
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("creatures", s.Creatures),
		slog.Int("lifts", s.Lifts),
		slog.Int("plants", s.Plants),
		slog.Int("respawns", s.Respawns),
		slog.Float64("step_rate", s.StepRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("planted_mean", s.PlantedMean),
		slog.Float64("planted_min", s.PlantedMin),
		slog.Float64("link_err_max", s.LinkErrMax),
		slog.Float64("distance", s.Distance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
