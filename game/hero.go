package game

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/config"
)

// heroHeight is how far above the floor the hero's center sits.
const heroHeight = 24.0

// absenceThreshold is the presence noise level below which the hero leaves
// the level for a while.
const absenceThreshold = -0.55

// ScriptedHero wanders the floor on smooth noise so headless runs exercise
// scares and stomps without a player.
type ScriptedHero struct {
	noise opensimplex.Noise
	cfg   *config.Config
	x     float64
	t     float64
}

// NewScriptedHero creates a hero in the middle of the floor. The same seed
// always produces the same walk.
func NewScriptedHero(cfg *config.Config, seed int64) *ScriptedHero {
	w := &cfg.World
	return &ScriptedHero{
		noise: opensimplex.New(seed),
		cfg:   cfg,
		x:     (w.LeftWallX + w.RightWallX) / 2,
	}
}

// Step advances the walk by dt and returns the hero input for this tick.
func (h *ScriptedHero) Step(dt float64) HeroInput {
	hc := &h.cfg.Hero
	w := &h.cfg.World
	h.t += dt

	s := h.t * hc.NoiseScale
	h.x += h.noise.Eval2(s, 0) * hc.Speed * dt
	h.x = math.Max(w.LeftWallX, math.Min(w.RightWallX, h.x))

	if h.noise.Eval2(s*0.5, 100) < absenceThreshold {
		return HeroInput{}
	}
	return HeroInput{Present: true, Pos: r2.Vec{X: h.x, Y: w.FloorY - heroHeight}}
}

// heroAt places a hero at (x, y), clamped inside the walls, floor and ceiling.
func heroAt(cfg *config.Config, x, y float64) HeroInput {
	w := &cfg.World
	return HeroInput{
		Present: true,
		Pos: r2.Vec{
			X: math.Max(w.LeftWallX, math.Min(w.RightWallX, x)),
			Y: math.Max(w.CeilingY, math.Min(w.FloorY, y)),
		},
	}
}
