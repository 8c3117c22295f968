package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Population  int
	StateCounts [components.StateCount]int
	Groups      int
	Tick        int32
	SimTime     float64
	Speed       int
	FPS         int32
	Paused      bool
	HeroPresent bool
	Following   bool // hero follows the mouse
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Crawlers: %d | Groups: %d", data.Population, data.Groups),
		10, 35, 16, rl.LightGray,
	)

	states := ""
	for s := components.CreatureState(0); s < components.StateCount; s++ {
		if s > 0 {
			states += " | "
		}
		states += fmt.Sprintf("%s %d", s, data.StateCounts[s])
	}
	rl.DrawText(states, 10, 55, 14, rl.LightGray)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 73, 14, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	hero := "hero: scripted"
	if data.Following {
		hero = "hero: mouse"
	}
	if !data.HeroPresent {
		hero = "hero: away"
	}
	rl.DrawText(status+" | "+hero, 10, 91, 14, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Phases", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (p95 %s)", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for phase := telemetry.PhaseBehavior; phase <= telemetry.PhaseTelemetry; phase++ {
		name := phase.String()
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
