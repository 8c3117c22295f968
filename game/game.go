// Package game drives the crawler simulation: it owns the creature arena,
// runs the systems in a fixed order each tick and feeds telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crawl/camera"
	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/inspector"
	"github.com/pthm-cable/crawl/renderer"
	"github.com/pthm-cable/crawl/systems"
	"github.com/pthm-cable/crawl/telemetry"
	"github.com/pthm-cable/crawl/ui"
)

// HeroInput is the hero position fed to one Step. Present == false means
// the level has no hero this tick.
type HeroInput = systems.Hero

// Options configures a new Game.
type Options struct {
	Seed           int64
	Headless       bool
	OutputDir      string  // CSV output directory, empty disables
	SnapshotDir    string  // bookmark snapshots, empty disables
	LogStats       bool    // log window stats and engine events
	StatsWindowSec float64 // overrides telemetry.stats_window when > 0
	StepsPerUpdate int     // simulation steps per Update call
	ConfigPath     string  // watched for live tunable reload in windowed mode
	SkipPopulation bool    // start with an empty level
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	cfg   *config.Config

	mapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Behavior,
		components.LegSet,
	]
	filter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Behavior,
		components.LegSet,
	]
	bodyMap *ecs.Map1[components.Body]

	// Systems
	behavior *systems.BehaviorSystem
	physics  *systems.PhysicsSystem
	gait     *systems.GaitSystem
	grouping *systems.GroupingSystem

	// Events of the last Step, and events raised between steps that the
	// next Step reports
	events  systems.EventBuffer
	pending systems.EventBuffer

	hero         HeroInput
	scriptedHero *ScriptedHero

	// State
	tick    int32
	simTime float64
	nextID  uint32
	alive   int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	eventRecords     []telemetry.EventRecord
	lastStepTotal    int
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)

	// Windowed mode
	headless         bool
	paused           bool
	stepsPerUpdate   int
	followMouse      bool
	showPerf         bool
	screenWidth      float32
	screenHeight     float32
	camera           *camera.Camera
	background       *renderer.BackgroundRenderer
	level            *renderer.LevelRenderer
	creatureRenderer *renderer.CreatureRenderer
	particleRenderer *renderer.ParticleRenderer
	particles        *systems.ParticleSystem
	hud              *ui.HUD
	perfPanel        *ui.PerfPanel
	statsPanel       *ui.StatsPanel
	overlays         *ui.OverlayRegistry
	controlsPanel    *ui.ControlsPanel
	tunables         *ui.TunablesPanel
	inspector        *inspector.Inspector
	selected         ecs.Entity
	watcher          *config.Watcher
	lastStats        telemetry.WindowStats
}

// New creates a simulation from cfg. The level is populated from the config's
// explicit spawns plus its random population unless opts.SkipPopulation is set.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		world:  world,
		rng:    rng,
		seed:   opts.Seed,
		cfg:    cfg,
		nextID: 1,
		mapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Behavior,
			components.LegSet,
		](world),
		filter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Behavior,
			components.LegSet,
		](world),
		bodyMap: ecs.NewMap1[components.Body](world),

		behavior: systems.NewBehaviorSystem(world, cfg, rng),
		physics:  systems.NewPhysicsSystem(world),
		gait:     systems.NewGaitSystem(world, &cfg.Gait),
		grouping: systems.NewGroupingSystem(world, cfg, rng),

		collector:        telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Telemetry.MassScareCount, cfg.Group.MaxSize),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,

		headless:       opts.Headless,
		stepsPerUpdate: stepsPerUpdate,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}

	if cfg.Hero.Enabled {
		g.scriptedHero = NewScriptedHero(cfg, opts.Seed)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			_ = om.Close()
			return nil, err
		}
	}

	if !opts.SkipPopulation {
		if err := g.spawnInitialPopulation(); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if !opts.Headless {
		g.initWindowed(opts.ConfigPath)
	}

	slog.Info("simulation created",
		"seed", opts.Seed,
		"creatures", g.alive,
		"headless", opts.Headless,
	)
	return g, nil
}

// Step advances the simulation by dt with the given hero input. Systems run
// in a fixed order: behavior, physics, gait, grouping, group policy, telemetry.
func (g *Game) Step(dt float64, hero HeroInput) {
	g.perfCollector.StartTick()

	g.events.Reset()
	for _, e := range g.pending.Events() {
		g.events.Emit(e)
	}
	g.pending.Reset()
	g.hero = hero

	// 1. State machine
	g.perfCollector.StartPhase(telemetry.PhaseBehavior)
	g.behavior.Update(dt, hero, &g.events)

	// 2. Move along the surface
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(dt)

	// 3. Legs follow the body
	g.perfCollector.StartPhase(telemetry.PhaseGait)
	g.gait.Update(dt, &g.events)

	// 4. Pyramid detection and settling
	g.perfCollector.StartPhase(telemetry.PhaseGrouping)
	g.grouping.Update(dt, &g.events)

	// 5. Stomp and idle destruction
	g.perfCollector.StartPhase(telemetry.PhaseGroupPolicy)
	g.applyGroupPolicy(hero, &g.events)

	g.tick++
	g.simTime += dt

	// 6. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry(dt)

	g.perfCollector.EndTick()
}

// UpdateHeadless runs stepsPerUpdate ticks with the configured dt and the
// scripted hero.
func (g *Game) UpdateHeadless() {
	dt := g.cfg.Physics.DT
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(dt, g.nextScriptedHero(dt))
	}
}

func (g *Game) nextScriptedHero(dt float64) HeroInput {
	if g.scriptedHero == nil {
		return HeroInput{}
	}
	return g.scriptedHero.Step(dt)
}

// Events returns the events raised by the last Step, in emission order.
// The slice is reused by the next Step.
func (g *Game) Events() []systems.Event {
	return g.events.Events()
}

// Groups returns the active groups, oldest first.
func (g *Game) Groups() []*systems.Group {
	return g.grouping.Groups()
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Population returns the number of live creatures.
func (g *Game) Population() int {
	return g.alive
}

// Config returns the active configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// SetStatsCallback registers a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Unload stops the gait workers and releases output files and the config
// watcher.
func (g *Game) Unload() {
	g.gait.Close()
	if g.outputManager != nil {
		if len(g.eventRecords) > 0 {
			if err := g.outputManager.WriteEvents(g.eventRecords); err != nil {
				slog.Error("failed to write events", "error", err)
			}
			g.eventRecords = g.eventRecords[:0]
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}
