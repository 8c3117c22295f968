package game

import (
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crawl/camera"
	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/inspector"
	"github.com/pthm-cable/crawl/renderer"
	"github.com/pthm-cable/crawl/systems"
	"github.com/pthm-cable/crawl/ui"
)

// initWindowed creates renderers and panels. The raylib window must already
// be open.
func (g *Game) initWindowed(configPath string) {
	w := &g.cfg.World
	sw, sh := int32(g.screenWidth), int32(g.screenHeight)

	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(w.Width), float32(w.Height))
	g.background = renderer.NewBackgroundRenderer(sw, sh, g.seed)
	g.level = renderer.NewLevelRenderer(*w, g.seed)
	g.creatureRenderer = renderer.NewCreatureRenderer()
	g.particleRenderer = renderer.NewParticleRenderer()
	// Visual effects draw from their own source so a seeded run stays
	// identical with or without a window.
	g.particles = systems.NewParticleSystem(rand.New(rand.NewSource(g.seed ^ 0x5eed)))

	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 130)
	g.statsPanel = ui.NewStatsPanel(10, 130)
	g.overlays = ui.NewOverlayRegistry()
	g.controlsPanel = ui.NewControlsPanel(10, 130, 220)
	g.tunables = ui.NewTunablesPanel(sw-290, 10, 280, g.tunableSliders())
	g.inspector = inspector.NewInspector(sw, sh)

	if configPath != "" {
		watcher, err := config.Watch(configPath)
		if err != nil {
			slog.Warn("config watch disabled", "path", configPath, "error", err)
		} else {
			g.watcher = watcher
			slog.Info("watching config", "path", configPath)
		}
	}
}

// Update handles input and advances the simulation for one frame.
func (g *Game) Update() {
	g.handleInput()
	g.pollConfig()

	if g.paused {
		return
	}

	dt := g.cfg.Physics.DT
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(dt, g.nextHero(dt))
		g.particles.Emit(g.Events())
	}
	g.particles.Update(float64(rl.GetFrameTime()))
}

// nextHero returns the mouse-driven hero when following is on, the scripted
// hero otherwise.
func (g *Game) nextHero(dt float64) HeroInput {
	if !g.followMouse {
		return g.nextScriptedHero(dt)
	}
	m := rl.GetMousePosition()
	if g.inspector.OverPanel(m.X, m.Y) {
		return HeroInput{}
	}
	wx, wy := g.camera.ScreenToWorld(m.X, m.Y)
	return heroAt(g.cfg, float64(wx), float64(wy))
}
