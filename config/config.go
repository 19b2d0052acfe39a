// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/shoal"
	"github.com/pthm-cable/shoal/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" toml:"screen"`
	World      WorldConfig      `yaml:"world" toml:"world"`
	Physics    PhysicsConfig    `yaml:"physics" toml:"physics"`
	Forces     ForcesConfig     `yaml:"forces" toml:"forces"`
	Population PopulationConfig `yaml:"population" toml:"population"`
	Render     RenderConfig     `yaml:"render" toml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`
	Events     EventsConfig     `yaml:"events" toml:"events"`
	Parallel   ParallelConfig   `yaml:"parallel" toml:"parallel"`
	Terminal   TerminalConfig   `yaml:"terminal" toml:"terminal"`
	Audio      AudioConfig      `yaml:"audio" toml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	TargetFPS int `yaml:"target_fps" toml:"target_fps"`
}

// WorldConfig holds the spawn area. The world itself is unbounded;
// agents start in the top-left quarter of this rectangle.
type WorldConfig struct {
	Width  int `yaml:"width" toml:"width"`   // 0 = use screen width
	Height int `yaml:"height" toml:"height"` // 0 = use screen height
}

// PhysicsConfig holds clock parameters.
type PhysicsConfig struct {
	HeadlessDT     float64 `yaml:"headless_dt" toml:"headless_dt"`           // seconds per tick without a window
	StepsPerUpdate int     `yaml:"steps_per_update" toml:"steps_per_update"` // headless ticks per loop iteration
}

// ForcesConfig holds the interaction constants.
type ForcesConfig struct {
	VisibilityDistance float64 `yaml:"visibility_distance" toml:"visibility_distance"`
	Attraction         float64 `yaml:"attraction" toml:"attraction"`
	Repulsion          float64 `yaml:"repulsion" toml:"repulsion"`
	Alignment          float64 `yaml:"alignment" toml:"alignment"`
	PredatorAttraction float64 `yaml:"predator_attraction" toml:"predator_attraction"`
	PredatorRepulsion  float64 `yaml:"predator_repulsion" toml:"predator_repulsion"`
	Epsilon            float64 `yaml:"epsilon" toml:"epsilon"`
}

// VecConfig is a 2D vector in config files.
type VecConfig struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// PopulationConfig holds initial population parameters.
type PopulationConfig struct {
	SchoolFish       int       `yaml:"school_fish" toml:"school_fish"`
	Predators        int       `yaml:"predators" toml:"predators"`
	SchoolVelocity   VecConfig `yaml:"school_velocity" toml:"school_velocity"`
	PredatorVelocity VecConfig `yaml:"predator_velocity" toml:"predator_velocity"`
}

// FishStyle describes how one kind is drawn.
type FishStyle struct {
	HeadRadius float64 `yaml:"head_radius" toml:"head_radius"`
	TailLength float64 `yaml:"tail_length" toml:"tail_length"`
	Color      uint32  `yaml:"color" toml:"color"` // 0xRRGGBB
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	GridSpacing     float64   `yaml:"grid_spacing" toml:"grid_spacing"`         // dot spacing along grid lines
	GridCellWidth   float64   `yaml:"grid_cell_width" toml:"grid_cell_width"`   // 0 = half the screen width
	GridCellHeight  float64   `yaml:"grid_cell_height" toml:"grid_cell_height"` // 0 = half the screen height
	BackgroundColor uint32    `yaml:"background_color" toml:"background_color"`
	GridColor       uint32    `yaml:"grid_color" toml:"grid_color"`
	ShowGrid        bool      `yaml:"show_grid" toml:"show_grid"`
	FollowCentroid  bool      `yaml:"follow_centroid" toml:"follow_centroid"`
	SchoolFish      FishStyle `yaml:"school_fish" toml:"school_fish"`
	Predator        FishStyle `yaml:"predator" toml:"predator"`
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window" toml:"stats_window"`                   // seconds of sim time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window" toml:"perf_collector_window"` // ticks averaged by the perf collector
	EventHistorySize    int     `yaml:"event_history_size" toml:"event_history_size"`       // windows of history kept by the event detector
}

// EventsConfig holds flock event detection thresholds.
type EventsConfig struct {
	SchoolPolarization float64 `yaml:"school_polarization" toml:"school_polarization"` // polarization that counts as schooling
	SchoolWindows      int     `yaml:"school_windows" toml:"school_windows"`           // consecutive windows above it
	ScatterGrowth      float64 `yaml:"scatter_growth" toml:"scatter_growth"`           // cohesion radius growth over recent minimum
	StrikeRadius       float64 `yaml:"strike_radius" toml:"strike_radius"`             // predator distance to centroid
	StallSpeed         float64 `yaml:"stall_speed" toml:"stall_speed"`                 // mean speed below this is a stall
}

// ParallelConfig controls the step worker pool.
type ParallelConfig struct {
	Enabled   bool `yaml:"enabled" toml:"enabled"`
	Threshold int  `yaml:"threshold" toml:"threshold"`
}

// TerminalConfig controls the text-mode renderer.
type TerminalConfig struct {
	CellWidth float64 `yaml:"cell_width" toml:"cell_width"` // world units per column; rows are twice as tall
	FrameMS   int     `yaml:"frame_ms" toml:"frame_ms"`
	Arrows    bool    `yaml:"arrows" toml:"arrows"` // draw school fish as heading arrows
}

// AudioConfig controls event cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	Volume  float64 `yaml:"volume" toml:"volume"` // 0..1
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW float64 // effective world width
	WorldH float64 // effective world height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
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

// Load reads a YAML or TOML file (chosen by extension) over the embedded
// defaults. Fields missing from the file keep their default values.
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
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid value")

// Validate checks values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s = %v: %w", field, v, ErrInvalid))
		}
	}

	check(c.Population.SchoolFish >= 0, "population.school_fish", c.Population.SchoolFish)
	check(c.Population.Predators >= 0, "population.predators", c.Population.Predators)
	check(c.Forces.VisibilityDistance > 0, "forces.visibility_distance", c.Forces.VisibilityDistance)
	check(c.Forces.Epsilon > 0, "forces.epsilon", c.Forces.Epsilon)
	check(c.World.Width >= 0, "world.width", c.World.Width)
	check(c.World.Height >= 0, "world.height", c.World.Height)
	check(c.Physics.HeadlessDT > 0, "physics.headless_dt", c.Physics.HeadlessDT)
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window", c.Telemetry.StatsWindow)
	check(c.Terminal.CellWidth > 0, "terminal.cell_width", c.Terminal.CellWidth)
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume", c.Audio.Volume)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	if c.Render.GridCellWidth == 0 {
		c.Render.GridCellWidth = float64(c.Screen.Width) / 2
	}
	if c.Render.GridCellHeight == 0 {
		c.Render.GridCellHeight = float64(c.Screen.Height) / 2
	}

	if c.Physics.StepsPerUpdate < 1 {
		c.Physics.StepsPerUpdate = 1
	}
	if c.Terminal.FrameMS < 1 {
		c.Terminal.FrameMS = 16
	}
}

// ForceParams returns the interaction constants for the engine.
func (c *Config) ForceParams() systems.ForceParams {
	f := c.Forces
	return systems.ForceParams{
		VisibilityDistance:       f.VisibilityDistance,
		AttractionFactor:         f.Attraction,
		RepulsionFactor:          f.Repulsion,
		AlignmentFactor:          f.Alignment,
		PredatorAttractionFactor: f.PredatorAttraction,
		PredatorRepulsionFactor:  f.PredatorRepulsion,
		Epsilon:                  f.Epsilon,
	}
}

// ShoalConfig returns the population description for shoal.New.
func (c *Config) ShoalConfig() shoal.Config {
	p := c.Population
	return shoal.Config{
		WorldWidth:        c.Derived.WorldW,
		WorldHeight:       c.Derived.WorldH,
		SchoolFish:        p.SchoolFish,
		Predators:         p.Predators,
		SchoolVelocity:    components.Vec2{X: p.SchoolVelocity.X, Y: p.SchoolVelocity.Y},
		PredatorVelocity:  components.Vec2{X: p.PredatorVelocity.X, Y: p.PredatorVelocity.Y},
		Forces:            c.ForceParams(),
		Parallel:          c.Parallel.Enabled,
		ParallelThreshold: c.Parallel.Threshold,
	}
}

// WriteYAML writes the configuration to a YAML file.
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
