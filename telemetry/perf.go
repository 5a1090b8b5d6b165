package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// PerfCollector times the named phases of each tick over a rolling window.
// The phase list is fixed at construction and is also the report order.
type PerfCollector struct {
	phases []string
	slot   map[string]int

	// Ring of the most recent ticks. spent[i] has one entry per phase.
	tick   []time.Duration
	spent  [][]time.Duration
	next   int
	filled int

	open       int // running phase, -1 when none
	tickStart  time.Time
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector for phases averaged over window
// ticks. A window below 1 falls back to 60.
func NewPerfCollector(phases []string, window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	p := &PerfCollector{
		phases: phases,
		slot:   make(map[string]int, len(phases)),
		tick:   make([]time.Duration, window),
		spent:  make([][]time.Duration, window),
		open:   -1,
	}
	for i, name := range phases {
		p.slot[name] = i
	}
	for i := range p.spent {
		p.spent[i] = make([]time.Duration, len(phases))
	}
	return p
}

// StartTick begins timing a tick, overwriting the oldest slot.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.spent[p.next])
	p.open = -1
}

// StartPhase ends the running phase and starts timing name. Time spent in
// a name the collector was not built with is counted toward the tick only.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	if i, ok := p.slot[name]; ok {
		p.open = i
		p.phaseStart = now
	}
}

// EndTick ends the running phase and commits the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.tick[p.next] = now.Sub(p.tickStart)
	p.next = (p.next + 1) % len(p.tick)
	p.filled = min(p.filled+1, len(p.tick))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open >= 0 {
		p.spent[p.next][p.open] += now.Sub(p.phaseStart)
		p.open = -1
	}
}

// RecordFrame measures the time since the previous frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseTiming is one phase's share of the average tick.
type PhaseTiming struct {
	Name string
	Avg  time.Duration
	Pct  float64 // of the average tick
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTick        time.Duration
	MaxTick        time.Duration
	TicksPerSecond float64
	FPS            float64       // zero until two frames are recorded
	Phases         []PhaseTiming // in collector order, always complete
}

// Stats averages the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Phases: make([]PhaseTiming, len(p.phases))}
	for i, name := range p.phases {
		s.Phases[i].Name = name
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	for i := 0; i < p.filled; i++ {
		total += p.tick[i]
		s.MaxTick = max(s.MaxTick, p.tick[i])
		for j, d := range p.spent[i] {
			s.Phases[j].Avg += d
		}
	}
	n := time.Duration(p.filled)
	s.AvgTick = total / n
	for j := range s.Phases {
		s.Phases[j].Avg /= n
		if s.AvgTick > 0 {
			s.Phases[j].Pct = float64(s.Phases[j].Avg) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range s.Phases {
		attrs = append(attrs, slog.Float64(ph.Name+"_pct", ph.Pct))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.LogValue().Group()...)
}

// PerfRow is one line of perf.csv: a phase, or the whole tick under the
// name "tick", for one stats window.
type PerfRow struct {
	WindowEnd   int32   `csv:"window_end"`
	Phase       string  `csv:"phase"`
	AvgUS       int64   `csv:"avg_us"`
	Pct         float64 `csv:"pct"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
}

// Rows flattens the stats into one row per phase after a "tick" row.
func (s PerfStats) Rows(windowEnd int32) []PerfRow {
	rows := make([]PerfRow, 0, len(s.Phases)+1)
	rows = append(rows, PerfRow{
		WindowEnd:   windowEnd,
		Phase:       "tick",
		AvgUS:       s.AvgTick.Microseconds(),
		Pct:         100,
		TicksPerSec: s.TicksPerSecond,
	})
	for _, ph := range s.Phases {
		rows = append(rows, PerfRow{
			WindowEnd:   windowEnd,
			Phase:       ph.Name,
			AvgUS:       ph.Avg.Microseconds(),
			Pct:         ph.Pct,
			TicksPerSec: s.TicksPerSecond,
		})
	}
	return rows
}
