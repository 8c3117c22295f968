package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleType identifies the type of effect particle.
type ParticleType uint8

const (
	ParticleAlarm   ParticleType = iota // rises off a scared creature
	ParticleDust                        // kicked up where a pyramid forms
	ParticleScatter                     // radial burst when a pyramid falls apart
)

// maxParticles caps the live particle count.
const maxParticles = 500

// particleDrag is the fraction of velocity lost per second.
const particleDrag = 3.0

// EffectParticle is a short-lived visual cue. Particles never feed back into
// the simulation.
type EffectParticle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Life    float64 // seconds left
	MaxLife float64
	Type    ParticleType
	Size    float64
}

// LifeRatio returns the remaining fraction of the particle's life.
func (p *EffectParticle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}

// ParticleSystem turns engine events into effect particles. It draws from its
// own random source so visuals never perturb a seeded run.
type ParticleSystem struct {
	Particles []EffectParticle
	rng       Rand
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(rng Rand) *ParticleSystem {
	return &ParticleSystem{
		Particles: make([]EffectParticle, 0, maxParticles),
		rng:       rng,
	}
}

// Emit spawns the particles for each event that has a visual cue.
func (s *ParticleSystem) Emit(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventScared:
			s.burst(e.Pos, ParticleAlarm, 3)
		case EventGroupFormed:
			s.burst(e.Pos, ParticleDust, 10)
		case EventGroupDisbanded:
			s.burst(e.Pos, ParticleScatter, 8+2*e.Size)
		}
	}
}

// Update ages and moves every particle by dt, dropping expired ones.
func (s *ParticleSystem) Update(dt float64) {
	drag := math.Exp(-particleDrag * dt)
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life -= dt
		if p.Life <= 0 {
			continue
		}

		switch p.Type {
		case ParticleAlarm:
			p.Vel.Y -= 20 * dt
		case ParticleDust:
			p.Vel.Y -= 5 * dt
		case ParticleScatter:
			p.Vel.Y += 60 * dt
		}

		p.Vel = r2.Scale(drag, p.Vel)
		p.Pos = r2.Add(p.Pos, r2.Scale(dt, p.Vel))

		s.Particles[alive] = *p
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// Count returns the current number of active particles.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}

func (s *ParticleSystem) burst(at r2.Vec, t ParticleType, count int) {
	for i := 0; i < count && len(s.Particles) < maxParticles; i++ {
		s.Particles = append(s.Particles, s.spawn(at, t))
	}
}

func (s *ParticleSystem) spawn(at r2.Vec, t ParticleType) EffectParticle {
	var vel r2.Vec
	var life, size float64

	switch t {
	case ParticleAlarm:
		vel = r2.Vec{X: uniform(s.rng, -8, 8), Y: uniform(s.rng, -30, -15)}
		life = uniform(s.rng, 0.4, 0.7)
		size = uniform(s.rng, 1, 2)
	case ParticleDust:
		vel = r2.Vec{X: uniform(s.rng, -25, 25), Y: uniform(s.rng, -12, 0)}
		life = uniform(s.rng, 0.5, 1.0)
		size = uniform(s.rng, 1.5, 3)
	default:
		angle := uniform(s.rng, math.Pi, 2*math.Pi) // upper half
		speed := uniform(s.rng, 40, 90)
		vel = r2.Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
		life = uniform(s.rng, 0.4, 0.8)
		size = uniform(s.rng, 1.5, 2.5)
	}

	jitter := r2.Vec{X: uniform(s.rng, -2, 2), Y: uniform(s.rng, -2, 2)}
	return EffectParticle{
		Pos:     r2.Add(at, jitter),
		Vel:     vel,
		Life:    life,
		MaxLife: life,
		Type:    t,
		Size:    size,
	}
}
