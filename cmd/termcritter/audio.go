package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// thump is a short decaying sine, one per footfall.
type thump struct {
	freq     float64
	decay    float64 // amplitude multiplier per sample
	amp      float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

func newThump(freq float64, d time.Duration, rate beep.SampleRate) *thump {
	n := max(1, rate.N(d))
	// Fall to about 1% of the initial amplitude by the end.
	return &thump{freq: freq, decay: math.Pow(0.01, 1/float64(n)), amp: 1, length: n, rate: rate}
}

func (t *thump) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}
		v := t.amp * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.amp *= t.decay
		t.position++
	}
	return len(samples), true
}

func (t *thump) Err() error { return nil }

// Footfalls plays a thump through a shared mixer whenever a foot plants.
// Until Start succeeds every call is a no-op.
type Footfalls struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	live   bool
}

// NewFootfalls creates a silent player; volume is linear in [0, 1].
func NewFootfalls(volume float64) *Footfalls {
	return &Footfalls{mixer: &beep.Mixer{}, volume: volume}
}

// Start opens the audio device.
func (f *Footfalls) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.live {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(f.mixer)
	f.live = true
	return nil
}

// Step queues one footfall. pitch scales the base frequency and pan places
// it between left (-1) and right (1). It reports whether a sound was queued.
func (f *Footfalls) Step(pitch, pan float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live {
		return false
	}
	v := f.voice(pitch, pan)
	speaker.Lock()
	f.mixer.Add(v)
	speaker.Unlock()
	return true
}

func (f *Footfalls) voice(pitch, pan float64) beep.Streamer {
	s := beep.Streamer(newThump(90*pitch, 80*time.Millisecond, sampleRate))
	if f.volume <= 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Silent: true}
	} else {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(f.volume)}
	}
	return &effects.Pan{Streamer: s, Pan: math.Max(-1, math.Min(1, pan))}
}

// Close stops playback and releases the device.
func (f *Footfalls) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live {
		return
	}
	speaker.Clear()
	speaker.Close()
	f.live = false
}
