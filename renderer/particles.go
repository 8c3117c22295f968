package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crawl/systems"
)

// ParticleRenderer renders effect particles.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders all particles. Call inside BeginMode2D.
func (r *ParticleRenderer) Draw(particles []systems.EffectParticle) {
	for i := range particles {
		p := &particles[i]
		lifeRatio := float32(p.LifeRatio())

		var color rl.Color
		switch p.Type {
		case systems.ParticleAlarm:
			color = rl.Color{R: 240, G: 230, B: 120, A: uint8(lifeRatio * 220)}
		case systems.ParticleDust:
			color = rl.Color{R: 150, G: 130, B: 110, A: uint8(lifeRatio * 160)}
		case systems.ParticleScatter:
			color = rl.Color{R: 200, G: 160, B: 90, A: uint8(lifeRatio * 200)}
		}

		size := float32(p.Size) * lifeRatio
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircleV(rl.Vector2{X: float32(p.Pos.X), Y: float32(p.Pos.Y)}, size, color)
	}
}
