package telemetry

import "math"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	lifts    int
	plants   int
	respawns int

	// Per-tick samples for current window
	speeds     []float64
	planted    []float64
	linkErrMax float64
	distance   float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordEvent counts a gait or lifecycle event.
func (c *Collector) RecordEvent(ev Event) {
	switch ev.Type {
	case EventLift:
		c.lifts++
	case EventPlant:
		c.plants++
	case EventRespawn:
		c.respawns++
	}
}

// RecordSample adds one creature's state after a tick.
func (c *Collector) RecordSample(speed, plantedFraction, linkErr float64) {
	c.speeds = append(c.speeds, speed)
	c.planted = append(c.planted, plantedFraction)
	c.linkErrMax = math.Max(c.linkErrMax, linkErr)
	c.distance += speed
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, creatures int) WindowStats {
	speedMean, speedP50, speedP90, speedMax := ComputeSpread(c.speeds)
	plantedMean, _, _, _ := ComputeSpread(c.planted)
	plantedMin := 0.0
	if len(c.planted) > 0 {
		plantedMin = c.planted[0]
		for _, p := range c.planted[1:] {
			plantedMin = math.Min(plantedMin, p)
		}
	}

	var stepRate float64
	if elapsed := float64(currentTick-c.windowStartTick) * float64(c.dt); elapsed > 0 {
		stepRate = float64(c.lifts) / elapsed
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Creatures: creatures,

		Lifts:    c.lifts,
		Plants:   c.plants,
		Respawns: c.respawns,
		StepRate: stepRate,

		SpeedMean: speedMean,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,
		SpeedMax:  speedMax,

		PlantedMean: plantedMean,
		PlantedMin:  plantedMin,

		LinkErrMax: c.linkErrMax,
		Distance:   c.distance,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.lifts = 0
	c.plants = 0
	c.respawns = 0
	c.speeds = c.speeds[:0]
	c.planted = c.planted[:0]
	c.linkErrMax = 0
	c.distance = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
