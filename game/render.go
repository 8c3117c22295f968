package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/inspector"
	"github.com/pthm-cable/crawl/renderer"
	"github.com/pthm-cable/crawl/ui"
)

const controlsHelp = "[Space] pause  [,/.] speed  [H] hero follows mouse  [G] topple pyramid  " +
	"[F1] overlays  [F2] tunables  [F3] stats  [F4] perf  [Home] reset view"

var (
	colorBounds = rl.Color{R: 120, G: 180, B: 230, A: 160}
	colorTarget = rl.Color{R: 240, G: 200, B: 90, A: 200}
	colorPlant  = rl.Color{R: 120, G: 220, B: 140, A: 160}
)

// Draw renders one frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.background.Draw(float32(g.simTime), g.camera.X, g.camera.Y)

	rl.BeginMode2D(g.camera.Camera2D())
	g.drawWorld()
	rl.EndMode2D()

	g.drawUI()

	rl.EndDrawing()
}

// drawWorld renders everything in world space.
func (g *Game) drawWorld() {
	g.level.Draw(g.camera.VisibleWorldBounds())

	views := g.Creatures()
	selected, hasSelected := g.inspector.Selected()
	tinted := g.overlays.IsEnabled(ui.OverlayStateColors)

	var rc renderer.Creature
	for i := range views {
		v := &views[i]
		if !g.camera.IsVisible(float32(v.Pos.X), float32(v.Pos.Y), float32(v.BodyLength*v.Scale*2)) {
			continue
		}
		fillCreature(&rc, v)
		rc.Tinted = tinted
		g.creatureRenderer.Draw(&rc)

		if hasSelected && v.Entity == selected {
			g.inspector.DrawSelectionHighlight(v.Pos, hitRadius(v.BodyLength, v.Scale))
			if g.overlays.IsEnabled(ui.OverlayBounds) {
				drawBounds(v)
			}
		}
		if g.overlays.IsEnabled(ui.OverlayFootTargets) {
			drawFeet(v)
		}
	}

	if g.overlays.IsEnabled(ui.OverlayGroups) {
		for _, grp := range g.Groups() {
			g.creatureRenderer.DrawGroup(vec2(grp.Centroid), float32(g.cfg.Group.StompRadius*grp.Scale), grp.Size())
		}
	}

	if g.hero.Present {
		radius := float32(0)
		if g.overlays.IsEnabled(ui.OverlayScareRadius) {
			radius = float32(g.cfg.Behavior.ScareRadius)
		}
		g.creatureRenderer.DrawHero(vec2(g.hero.Pos), radius)
	}

	if g.overlays.IsEnabled(ui.OverlayParticles) {
		g.particleRenderer.Draw(g.particles.Particles)
	}
}

// drawUI renders screen-space panels.
func (g *Game) drawUI() {
	data := ui.HUDData{
		Title:       "Crawl",
		Population:  g.alive,
		Groups:      len(g.Groups()),
		Tick:        g.tick,
		SimTime:     g.simTime,
		Speed:       g.stepsPerUpdate,
		FPS:         rl.GetFPS(),
		Paused:      g.paused,
		HeroPresent: g.hero.Present,
		Following:   g.followMouse,
	}
	query := g.filter.Query()
	for query.Next() {
		_, _, _, beh, _ := query.Get()
		data.StateCounts[beh.State]++
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(g.screenHeight), controlsHelp)

	// Left column panels stack under the HUD
	y := int32(130)
	if g.controlsPanel.IsVisible() {
		g.controlsPanel.SetPosition(10, y)
		y = g.controlsPanel.Draw(g.overlays) + 10
	}
	if g.statsPanel.IsVisible() {
		g.statsPanel.SetPosition(10, y)
		g.statsPanel.Draw(g.lastStats)
	}
	if g.showPerf {
		g.perfPanel.SetPosition(int32(g.screenWidth)-300, int32(g.screenHeight)-140)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	// Sliders write straight into the live config
	if g.tunables.Draw() {
		if err := g.ApplyTunables(g.cfg); err != nil {
			slog.Warn("tunable rejected", "error", err)
		}
	}

	g.drawInspector()
}

// drawInspector feeds the selected creature's components to the panel.
func (g *Game) drawInspector() {
	e, ok := g.inspector.Selected()
	if !ok {
		return
	}
	if !g.world.Alive(e) {
		g.inspector.Deselect()
		return
	}
	pos, vel, body, beh, legs := g.mapper.Get(e)
	g.inspector.Draw(inspector.Subject{
		Archetype: g.variantName(body.Variant),
		Pos:       pos.Vec(),
		Vel:       r2.Vec{X: vel.X, Y: vel.Y},
		Body:      body,
		Behavior:  beh,
		Legs:      legs,
		Lifetime:  g.lifetimeTracker.Get(body.ID),
	})
}

func fillCreature(rc *renderer.Creature, v *CreatureView) {
	rc.Pos = vec2(v.Pos)
	rc.Surface = v.Surface
	rc.State = v.State
	rc.Scale = float32(v.Scale)
	rc.BodyLength = float32(v.BodyLength)
	rc.DropOffset = float32(v.DropOffset)
	rc.Direction = float32(v.Direction)
	rc.LegCount = len(v.Legs)
	for i, l := range v.Legs {
		rc.Legs[i] = renderer.Limb{
			Attach:   vec2(l.Attach),
			Joint:    vec2(l.Joint),
			Foot:     vec2(l.Foot),
			Stepping: l.Stepping,
		}
	}
}

// drawBounds marks the span a creature may travel.
func drawBounds(v *CreatureView) {
	const tick = 6
	if v.Surface == components.Floor {
		y := float32(v.Pos.Y)
		lo, hi := float32(v.Bounds.Min), float32(v.Bounds.Max)
		rl.DrawLineV(rl.Vector2{X: lo, Y: y}, rl.Vector2{X: hi, Y: y}, colorBounds)
		rl.DrawLineV(rl.Vector2{X: lo, Y: y - tick}, rl.Vector2{X: lo, Y: y + tick}, colorBounds)
		rl.DrawLineV(rl.Vector2{X: hi, Y: y - tick}, rl.Vector2{X: hi, Y: y + tick}, colorBounds)
		return
	}
	x := float32(v.Pos.X)
	lo, hi := float32(v.Bounds.Min), float32(v.Bounds.Max)
	rl.DrawLineV(rl.Vector2{X: x, Y: lo}, rl.Vector2{X: x, Y: hi}, colorBounds)
	rl.DrawLineV(rl.Vector2{X: x - tick, Y: lo}, rl.Vector2{X: x + tick, Y: lo}, colorBounds)
	rl.DrawLineV(rl.Vector2{X: x - tick, Y: hi}, rl.Vector2{X: x + tick, Y: hi}, colorBounds)
}

// drawFeet marks planted feet and the landing point of each step.
func drawFeet(v *CreatureView) {
	for _, l := range v.Legs {
		if l.Stepping {
			rl.DrawCircleLinesV(vec2(l.Target), 2.5, colorTarget)
			rl.DrawLineV(vec2(l.Foot), vec2(l.Target), colorTarget)
			continue
		}
		rl.DrawCircleLinesV(vec2(l.Foot), 2, colorPlant)
	}
}

func vec2(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
