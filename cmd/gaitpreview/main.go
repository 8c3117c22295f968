// Gait preview tool - one crawler on a short floor with live gait sliders.
//
// Hold the left mouse button over the floor to scare it.
//
// Usage: go run ./cmd/gaitpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/game"
	"github.com/pthm-cable/crawl/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	stageWidth   = 640
	panelX       = stageWidth + 20
	panelWidth   = windowWidth - panelX - 20
	sliderWidth  = panelWidth - 70
)

// BodyParams are the construction values that need a respawn to change.
type BodyParams struct {
	LegCount int
	Upper    float32
	Lower    float32
	Speed    float32
	Scale    float32
}

// slider is one gait tunable bound to the preview config.
type slider struct {
	label    string
	min, max float32
	value    *float64
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	stage(base)

	arch := base.Archetypes[0]
	defaults := BodyParams{
		LegCount: arch.LegCount,
		Upper:    float32(arch.Upper),
		Lower:    float32(arch.Lower),
		Speed:    float32(arch.Speed),
		Scale:    2,
	}
	body := defaults

	rl.InitWindow(windowWidth, windowHeight, "Gait Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	tun := base.Clone()
	g := spawn(base, body)
	defer func() { g.Unload() }()

	level := renderer.NewLevelRenderer(base.World, 1)
	creatures := renderer.NewCreatureRenderer()

	sliders := gaitSliders(tun)

	paused := false
	showTargets := true

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}

		var hero game.HeroInput
		mouse := rl.GetMousePosition()
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) && mouse.X < stageWidth {
			hero = game.HeroInput{Present: true}
			hero.Pos.X, hero.Pos.Y = float64(mouse.X), float64(mouse.Y)
		}
		if !paused {
			g.Step(base.Physics.DT, hero)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 18, G: 16, B: 22, A: 255})

		level.Draw(0, 0, stageWidth, windowHeight)
		for _, v := range g.Creatures() {
			rc := renderer.Creature{
				Pos:        rl.Vector2{X: float32(v.Pos.X), Y: float32(v.Pos.Y)},
				Surface:    v.Surface,
				State:      v.State,
				Scale:      float32(v.Scale),
				BodyLength: float32(v.BodyLength),
				DropOffset: float32(v.DropOffset),
				Direction:  float32(v.Direction),
				LegCount:   len(v.Legs),
				Tinted:     true,
			}
			for i, l := range v.Legs {
				rc.Legs[i] = renderer.Limb{
					Attach:   rl.Vector2{X: float32(l.Attach.X), Y: float32(l.Attach.Y)},
					Joint:    rl.Vector2{X: float32(l.Joint.X), Y: float32(l.Joint.Y)},
					Foot:     rl.Vector2{X: float32(l.Foot.X), Y: float32(l.Foot.Y)},
					Stepping: l.Stepping,
				}
				if showTargets && l.Stepping {
					rl.DrawCircleLines(int32(l.Target.X), int32(l.Target.Y), 3, rl.Yellow)
				}
			}
			creatures.Draw(&rc)

			rl.DrawText(fmt.Sprintf("%s  drop %.1f  speed %.0f", v.State, v.DropOffset, float64(body.Speed)*v.Scale),
				10, 10, 16, rl.LightGray)
		}
		if hero.Present {
			creatures.DrawHero(rl.Vector2{X: float32(hero.Pos.X), Y: float32(hero.Pos.Y)},
				float32(base.Behavior.ScareRadius)*body.Scale)
		}
		if paused {
			rl.DrawText("PAUSED", stageWidth/2-40, 40, 20, rl.Yellow)
		}

		// Control panel
		y := float32(10)
		rl.DrawRectangle(stageWidth, 0, windowWidth-stageWidth, windowHeight, rl.Color{R: 235, G: 235, B: 235, A: 255})
		rl.DrawText("Gait", panelX, int32(y), 20, rl.DarkGray)
		y += 30

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, panelX, int32(y), 14, rl.Gray)
			y += 16
			v := gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: sliderWidth, Height: 16}, "", "", float32(*s.value), s.min, s.max)
			rl.DrawText(fmt.Sprintf("%.2f", *s.value), int32(panelX+sliderWidth+8), int32(y), 14, rl.DarkGray)
			if float64(v) != *s.value {
				*s.value = float64(v)
				changed = true
			}
			y += 24
		}
		if changed {
			if err := g.ApplyTunables(tun); err != nil {
				rl.DrawText(err.Error(), 10, windowHeight-24, 14, rl.Red)
			}
		}

		rl.DrawLine(panelX, int32(y), panelX+panelWidth, int32(y), rl.LightGray)
		y += 8
		rl.DrawText("Body (respawns)", panelX, int32(y), 20, rl.DarkGray)
		y += 30

		next := body
		legs := gui.SliderBar(rl.Rectangle{X: panelX + 70, Y: y, Width: sliderWidth - 70, Height: 16}, "Legs", "", float32(next.LegCount), 2, 4)
		next.LegCount = 2
		if legs >= 3 {
			next.LegCount = 4
		}
		rl.DrawText(fmt.Sprintf("%d", next.LegCount), int32(panelX+sliderWidth+8), int32(y), 14, rl.DarkGray)
		y += 24
		next.Upper = gui.SliderBar(rl.Rectangle{X: panelX + 70, Y: y, Width: sliderWidth - 70, Height: 16}, "Upper", "", next.Upper, 2, 20)
		y += 24
		next.Lower = gui.SliderBar(rl.Rectangle{X: panelX + 70, Y: y, Width: sliderWidth - 70, Height: 16}, "Lower", "", next.Lower, 2, 20)
		y += 24
		next.Speed = gui.SliderBar(rl.Rectangle{X: panelX + 70, Y: y, Width: sliderWidth - 70, Height: 16}, "Speed", "", next.Speed, 5, 150)
		y += 24
		next.Scale = gui.SliderBar(rl.Rectangle{X: panelX + 70, Y: y, Width: sliderWidth - 70, Height: 16}, "Scale", "", next.Scale, 0.5, 4)
		y += 30

		if next != body {
			body = next
			g.Unload()
			g = spawn(base, body)
			_ = g.ApplyTunables(tun)
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 100, Height: 26}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 110, Y: y, Width: 100, Height: 26}, "Reset") {
			body = defaults
			tun = base.Clone()
			sliders = gaitSliders(tun)
			g.Unload()
			g = spawn(base, body)
		}
		y += 34
		showTargets = gui.CheckBox(rl.Rectangle{X: panelX, Y: y, Width: 16, Height: 16}, "Show step targets", showTargets)

		rl.DrawText("Press C to copy gait YAML", panelX, windowHeight-24, 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			if text, err := tun.GaitYAML(); err == nil {
				rl.SetClipboardText(text)
			}
		}

		rl.EndDrawing()
	}
}

// stage shrinks the level to the preview area and clears the population.
func stage(cfg *config.Config) {
	cfg.World = config.WorldConfig{
		Width:      stageWidth,
		Height:     windowHeight,
		FloorY:     windowHeight - 120,
		LeftWallX:  20,
		RightWallX: stageWidth - 20,
		CeilingY:   40,
	}
	cfg.Hero.Enabled = false
	cfg.Spawns = nil
	cfg.Behavior.InitialCrawlChance = 1
}

// spawn builds a fresh headless game holding a single crawler.
func spawn(cfg *config.Config, body BodyParams) *game.Game {
	// The game owns its copy; ApplyTunables writes through it.
	g, err := game.New(cfg.Clone(), game.Options{Seed: 1, Headless: true, SkipPopulation: true})
	if err != nil {
		log.Fatalf("failed to create preview: %v", err)
	}

	spec := game.CreatureSpec{
		Surface:    components.Floor,
		LegCount:   body.LegCount,
		Upper:      float64(body.Upper),
		Lower:      float64(body.Lower),
		BodyLength: cfg.Archetypes[0].BodyLength,
		Speed:      float64(body.Speed),
		Scale:      float64(body.Scale),
		Direction:  1,
	}
	spec.Pos.X = stageWidth / 2
	if _, err := g.Spawn(spec); err != nil {
		log.Fatalf("failed to spawn preview creature: %v", err)
	}
	return g
}

// gaitSliders binds the gait tunables of cfg to sliders.
func gaitSliders(cfg *config.Config) []slider {
	gt := &cfg.Gait
	return []slider{
		{"Step threshold", 0.05, 0.8, &gt.StepThreshold},
		{"Emergency multiplier", 1.5, 8, &gt.EmergencyMultiplier},
		{"Step duration", 0.02, 0.3, &gt.StepDuration},
		{"Arc height", 0, 0.8, &gt.ArcHeight},
		{"Stride", 0, 0.8, &gt.Stride},
		{"Lateral", 0, 0.4, &gt.Lateral},
		{"Stand height", 0.2, 0.9, &gt.StandHeight},
		{"Crouch fraction", 0, 0.9, &gt.CrouchFraction},
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
