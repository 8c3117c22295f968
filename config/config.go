// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig      `yaml:"screen"`
	Physics    PhysicsConfig     `yaml:"physics"`
	World      WorldConfig       `yaml:"world"`
	Population PopulationConfig  `yaml:"population"`
	Archetypes []ArchetypeConfig `yaml:"archetypes"`
	Spawns     []SpawnConfig     `yaml:"spawns"`
	Behavior   BehaviorConfig    `yaml:"behavior"`
	Gait       GaitConfig        `yaml:"gait"`
	Group      GroupConfig       `yaml:"group"`
	Hero       HeroConfig        `yaml:"hero"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed tick length.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// WorldConfig describes the level the crawlers live in.
// The floor is a horizontal line at FloorY; the walls are vertical lines at
// LeftWallX and RightWallX.
type WorldConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	FloorY     float64 `yaml:"floor_y"`
	LeftWallX  float64 `yaml:"left_wall_x"`
	RightWallX float64 `yaml:"right_wall_x"`
	CeilingY   float64 `yaml:"ceiling_y"`
}

// PopulationConfig controls randomly placed creatures added on top of explicit spawns.
type PopulationConfig struct {
	Floor int `yaml:"floor"` // creatures on the floor
	Wall  int `yaml:"wall"`  // creatures split across both walls
}

// ArchetypeConfig defines a creature variant.
// The two variants share one code path and differ only in these values.
type ArchetypeConfig struct {
	Name        string  `yaml:"name"`
	LegCount    int     `yaml:"leg_count"`
	Upper       float64 `yaml:"upper"`        // upper leg segment length
	Lower       float64 `yaml:"lower"`        // lower leg segment length
	BodyLength  float64 `yaml:"body_length"`  // distance between front and back attachments
	Speed       float64 `yaml:"speed"`        // crawl speed, px/s at scale 1
	Scale       float64 `yaml:"scale"`
	ScaleJitter float64 `yaml:"scale_jitter"` // random +/- fraction applied to population spawns
	CanGroup    bool    `yaml:"can_group"`
}

// SpawnConfig places one creature explicitly. Zero-valued numeric fields
// fall back to the archetype.
type SpawnConfig struct {
	Archetype string     `yaml:"archetype"`
	Surface   string     `yaml:"surface"` // floor, left_wall, right_wall
	X         float64    `yaml:"x"`
	Y         float64    `yaml:"y"`
	Bounds    [2]float64 `yaml:"bounds"`
	Upper     float64    `yaml:"upper"`
	Lower     float64    `yaml:"lower"`
	Speed     float64    `yaml:"speed"`
	LegCount  int        `yaml:"leg_count"`
	Scale     float64    `yaml:"scale"`
	Exempt    bool       `yaml:"exempt"`
}

// Range is a closed [Min, Max] interval used for randomized durations.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// BehaviorConfig holds state machine tunables.
type BehaviorConfig struct {
	CrawlDuration      Range   `yaml:"crawl_duration"`
	StopDuration       Range   `yaml:"stop_duration"`
	ScareDuration      Range   `yaml:"scare_duration"`
	InitialCrawlChance float64 `yaml:"initial_crawl_chance"`
	ScareRadius        float64 `yaml:"scare_radius"`     // scaled by creature scale
	DropMax            float64 `yaml:"drop_max"`         // max sag while scared, scaled
	DropTime           float64 `yaml:"drop_time"`        // seconds to reach DropMax
	RecoverTime        float64 `yaml:"recover_time"`     // Recovering state length
	RecoverCooldown    float64 `yaml:"recover_cooldown"` // scare suppression after recovery
	FleeMultiplier     float64 `yaml:"flee_multiplier"`  // speed factor when escaping
}

// GaitConfig holds stepping tunables. Distances are fractions of leg reach.
type GaitConfig struct {
	StepThreshold       float64 `yaml:"step_threshold"`
	EmergencyMultiplier float64 `yaml:"emergency_multiplier"`
	StepDuration        float64 `yaml:"step_duration"`
	ArcHeight           float64 `yaml:"arc_height"`
	Stride              float64 `yaml:"stride"`
	Lateral             float64 `yaml:"lateral"`
	StandHeight         float64 `yaml:"stand_height"`
	CrouchFraction      float64 `yaml:"crouch_fraction"`
	CrouchRate          float64 `yaml:"crouch_rate"`
}

// GroupConfig holds pyramid formation tunables.
type GroupConfig struct {
	ScanInterval    float64 `yaml:"scan_interval"`
	JoinRadius      float64 `yaml:"join_radius"`
	MinSize         int     `yaml:"min_size"`
	MaxSize         int     `yaml:"max_size"`
	MaxIdle         float64 `yaml:"max_idle"`     // disband after this long without a new member (0 = never)
	StompRadius     float64 `yaml:"stomp_radius"` // hero distance that knocks a pyramid over (0 = never)
	SlotSpacing     float64 `yaml:"slot_spacing"`
	SettleRate      float64 `yaml:"settle_rate"`
	ScatterDuration float64 `yaml:"scatter_duration"`
	ScatterSpeed    float64 `yaml:"scatter_speed"`
}

// HeroConfig drives the scripted hero used by headless runs.
type HeroConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Speed      float64 `yaml:"speed"`
	NoiseScale float64 `yaml:"noise_scale"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	MassScareCount      int     `yaml:"mass_scare_count"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArchetypeIndex map[string]uint8 // name -> index for archetype lookup
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.World.RightWallX == 0 {
		c.World.RightWallX = c.World.Width
	}

	// Synthesize default archetypes if none specified
	if len(c.Archetypes) == 0 {
		c.Archetypes = []ArchetypeConfig{
			{Name: "beetle", LegCount: 4, Upper: 7, Lower: 8, BodyLength: 14, Speed: 40, Scale: 1, CanGroup: true},
			{Name: "mite", LegCount: 2, Upper: 5, Lower: 6, BodyLength: 8, Speed: 55, Scale: 1},
		}
	}

	for i := range c.Archetypes {
		arch := &c.Archetypes[i]
		if arch.Scale == 0 {
			arch.Scale = 1.0
		}
	}

	c.Derived.ArchetypeIndex = make(map[string]uint8, len(c.Archetypes))
	for i, arch := range c.Archetypes {
		c.Derived.ArchetypeIndex[arch.Name] = uint8(i)
	}
}

// Clone returns a deep copy that shares no slices or maps with c.
func (c *Config) Clone() *Config {
	out := *c
	out.Archetypes = slices.Clone(c.Archetypes)
	out.Spawns = slices.Clone(c.Spawns)
	out.Derived.ArchetypeIndex = maps.Clone(c.Derived.ArchetypeIndex)
	return &out
}

// Archetype returns the named archetype and whether it exists.
func (c *Config) Archetype(name string) (*ArchetypeConfig, bool) {
	idx, ok := c.Derived.ArchetypeIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Archetypes[idx], true
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

// GaitYAML renders the gait section alone, ready to paste into a config file.
func (c *Config) GaitYAML() (string, error) {
	data, err := yaml.Marshal(struct {
		Gait GaitConfig `yaml:"gait"`
	}{c.Gait})
	if err != nil {
		return "", fmt.Errorf("marshaling gait: %w", err)
	}
	return string(data), nil
}
