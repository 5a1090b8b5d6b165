// Package config provides configuration loading and access for the critter runtime.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runtime configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Body      BodyConfig      `yaml:"body"`
	Scene     SceneConfig     `yaml:"scene"`
	Limb      LimbConfig      `yaml:"limb"`
	Wander    WanderConfig    `yaml:"wander"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Render    RenderConfig    `yaml:"render"`
	Tune      TuneConfig      `yaml:"tune"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds tick timing.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`               // seconds per kinematic tick
	StepsPerUpdate int     `yaml:"steps_per_update"` // ticks per rendered frame
}

// BodyConfig holds the creature's motion coefficients.
// FAccel and FFric are absolute for the unscaled presets; the sized presets
// (squid, lizard) use SizeAccel and SizeFric multiplied by the body size.
type BodyConfig struct {
	FAccel    float64 `yaml:"f_accel"`
	FFric     float64 `yaml:"f_fric"`
	FRes      float64 `yaml:"f_res"`    // fraction of forward speed lost per tick
	FThresh   float64 `yaml:"f_thresh"` // stop chasing inside this distance
	RAccel    float64 `yaml:"r_accel"`
	RFric     float64 `yaml:"r_fric"`
	RRes      float64 `yaml:"r_res"`
	RThresh   float64 `yaml:"r_thresh"` // bearing error tolerated without turning
	SizeAccel float64 `yaml:"size_accel"`
	SizeFric  float64 `yaml:"size_fric"`
}

// SceneConfig selects and shapes the creature that is built at startup.
type SceneConfig struct {
	Preset        string  `yaml:"preset"` // random, lizard, squid, tentacle, arm, simple
	Size          float64 `yaml:"size"`   // 0 = derive from leg count
	Legs          int     `yaml:"legs"`   // 0 = random
	Tail          int     `yaml:"tail"`   // 0 = derive from leg count
	Seed          int64   `yaml:"seed"`
	ReducedMotion bool    `yaml:"reduced_motion"` // fixed target at screen centre
}

// LimbConfig holds limb and leg speeds per preset.
type LimbConfig struct {
	TentacleSpeed float64 `yaml:"tentacle_speed"`
	ArmSpeed      float64 `yaml:"arm_speed"`
	SquidSpeed    float64 `yaml:"squid_speed"`  // per unit of size
	LizardSpeed   float64 `yaml:"lizard_speed"` // per unit of size
}

// WanderConfig controls the noise-driven target used when nobody steers.
type WanderConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Frequency float64 `yaml:"frequency"` // noise cycles per tick
	Radius    float64 `yaml:"radius"`    // max distance from the anchor
}

// CameraConfig holds viewport control parameters.
type CameraConfig struct {
	PanSpeed  float32 `yaml:"pan_speed"` // screen pixels per frame
	ZoomStep  float32 `yaml:"zoom_step"`
	MinZoom   float32 `yaml:"min_zoom"`
	MaxZoom   float32 `yaml:"max_zoom"`
	Follow    bool    `yaml:"follow"`
	FollowLag float32 `yaml:"follow_lag"` // 0..1, fraction of the gap closed per frame
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// RenderConfig holds stroke styling.
type RenderConfig struct {
	StrokeWidth float32 `yaml:"stroke_width"`
	Color       string  `yaml:"color"` // #rrggbb
	Background  string  `yaml:"background"`
	ArcSegments int     `yaml:"arc_segments"`
	CellSize    float64 `yaml:"cell_size"` // world units per terminal cell
}

// TuneConfig holds the body coefficient optimizer defaults.
type TuneConfig struct {
	MaxEvals  int   `yaml:"max_evals"`
	Seeds     int   `yaml:"seeds"`
	MaxTicks  int   `yaml:"max_ticks"`
	Waypoints int   `yaml:"waypoints"`
	Seed      int64 `yaml:"seed"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	DT32       float32  // Physics.DT as float32
	ScreenW32  float32  // Screen.Width as float32
	ScreenH32  float32  // Screen.Height as float32
	Stroke     [4]uint8 // Render.Color as RGBA
	Background [4]uint8 // Render.Background as RGBA
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path (or embedded defaults if empty).
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.StepsPerUpdate < 1 {
		c.Physics.StepsPerUpdate = 1
	}
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	var err error
	if c.Derived.Stroke, err = ParseColor(c.Render.Color); err != nil {
		return fmt.Errorf("render.color: %w", err)
	}
	if c.Derived.Background, err = ParseColor(c.Render.Background); err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	return nil
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(s string) ([4]uint8, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return [4]uint8{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [4]uint8{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return [4]uint8{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// WriteYAML writes the config to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
