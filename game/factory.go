package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/systems"
)

// customVariant marks creatures spawned without an archetype.
const customVariant = math.MaxUint8

// CreatureSpec describes one creature to spawn. Zero-valued fields fall back
// to the named archetype; with no archetype every construction field must be
// set.
type CreatureSpec struct {
	Archetype string
	Surface   components.Surface

	// Pos places the body. The coordinate across the surface axis may be
	// left zero to rest the body at standing height over the surface.
	Pos r2.Vec

	// Bounds limits travel along the surface axis. Zero bounds span the
	// surface, less a body-length margin at each end.
	Bounds components.Bounds

	LegCount   int
	Upper      float64
	Lower      float64
	BodyLength float64
	Speed      float64
	Scale      float64
	Exempt     bool

	// Direction is the initial facing along the axis, 0 picks at random.
	Direction float64
}

// Validate reports the first construction field the simulation cannot use.
// Every error wraps config.ErrInvalid.
func (s CreatureSpec) Validate() error {
	if s.LegCount != 2 && s.LegCount != 4 {
		return invalidSpec("leg_count must be 2 or 4, got %d", s.LegCount)
	}
	if !(s.Upper > 0) || !(s.Lower > 0) {
		return invalidSpec("leg segment lengths must be > 0, got %v/%v", s.Upper, s.Lower)
	}
	if !(s.BodyLength > 0) {
		return invalidSpec("body_length must be > 0, got %v", s.BodyLength)
	}
	if !(s.Speed > 0) {
		return invalidSpec("speed must be > 0, got %v", s.Speed)
	}
	if !(s.Scale > 0) {
		return invalidSpec("scale must be > 0, got %v", s.Scale)
	}
	if s.Surface > components.RightWall {
		return invalidSpec("unknown surface %d", s.Surface)
	}
	if !(s.Bounds.Min < s.Bounds.Max) {
		return invalidSpec("bounds must satisfy min < max, got [%v, %v]", s.Bounds.Min, s.Bounds.Max)
	}
	if at := s.Surface.Component(s.Pos); !s.Bounds.Contains(at) {
		return invalidSpec("position %v outside bounds [%v, %v]", at, s.Bounds.Min, s.Bounds.Max)
	}
	return nil
}

func invalidSpec(format string, args ...any) error {
	return fmt.Errorf("%w: creature spec: "+format, append([]any{config.ErrInvalid}, args...)...)
}

// Spawn validates spec and admits the creature to the level.
func (g *Game) Spawn(spec CreatureSpec) (ecs.Entity, error) {
	resolved, variant, canGroup, err := g.resolveSpec(spec)
	if err != nil {
		return ecs.Entity{}, err
	}
	if err := resolved.Validate(); err != nil {
		return ecs.Entity{}, err
	}
	return g.spawnResolved(resolved, variant, canGroup), nil
}

// resolveSpec fills archetype defaults, default bounds and the rest plane.
func (g *Game) resolveSpec(spec CreatureSpec) (CreatureSpec, uint8, bool, error) {
	variant := uint8(customVariant)
	canGroup := true

	if spec.Archetype != "" {
		arch, ok := g.cfg.Archetype(spec.Archetype)
		if !ok {
			return spec, 0, false, invalidSpec("unknown archetype %q", spec.Archetype)
		}
		variant = g.cfg.Derived.ArchetypeIndex[spec.Archetype]
		canGroup = arch.CanGroup
		spec.LegCount = orInt(spec.LegCount, arch.LegCount)
		spec.Upper = orFloat(spec.Upper, arch.Upper)
		spec.Lower = orFloat(spec.Lower, arch.Lower)
		spec.BodyLength = orFloat(spec.BodyLength, arch.BodyLength)
		spec.Speed = orFloat(spec.Speed, arch.Speed)
		spec.Scale = orFloat(spec.Scale, arch.Scale)
	}
	if !(spec.Scale > 0) || !(spec.Upper > 0) || !(spec.Lower > 0) || !(spec.BodyLength > 0) {
		// Validate reports the field
		return spec, variant, canGroup, nil
	}

	reach := (spec.Upper + spec.Lower) * spec.Scale
	if spec.Bounds == (components.Bounds{}) {
		spec.Bounds = g.surfaceBounds(spec.Surface, spec.BodyLength*spec.Scale)
	}

	rest := g.restPlane(spec.Surface, reach)
	if spec.Surface == components.Floor {
		if spec.Pos.Y == 0 {
			spec.Pos.Y = rest
		}
	} else if spec.Pos.X == 0 {
		spec.Pos.X = rest
	}
	return spec, variant, canGroup, nil
}

// surfaceBounds spans the whole surface less margin at each end.
func (g *Game) surfaceBounds(s components.Surface, margin float64) components.Bounds {
	w := &g.cfg.World
	if s == components.Floor {
		return components.Bounds{Min: w.LeftWallX + margin, Max: w.RightWallX - margin}
	}
	return components.Bounds{Min: w.CeilingY + margin, Max: w.FloorY - margin}
}

// restPlane is the body coordinate across the axis that puts standing feet
// on the surface.
func (g *Game) restPlane(s components.Surface, reach float64) float64 {
	w := &g.cfg.World
	lift := g.cfg.Gait.StandHeight * reach
	switch s {
	case components.LeftWall:
		return w.LeftWallX + lift
	case components.RightWall:
		return w.RightWallX - lift
	default:
		return w.FloorY - lift
	}
}

func (g *Game) spawnResolved(spec CreatureSpec, variant uint8, canGroup bool) ecs.Entity {
	id := g.nextID
	g.nextID++

	direction := spec.Direction
	if direction == 0 {
		direction = 1
		if g.rng.Float64() < 0.5 {
			direction = -1
		}
	}

	pos := components.Position{X: spec.Pos.X, Y: spec.Pos.Y}
	vel := components.Velocity{}
	body := components.Body{
		ID:         id,
		Variant:    variant,
		Surface:    spec.Surface,
		Scale:      spec.Scale,
		BodyLength: spec.BodyLength,
		Speed:      spec.Speed * spec.Scale,
		Bounds:     spec.Bounds,
		Plane:      acrossAxis(spec.Surface, spec.Pos),
		Exempt:     spec.Exempt,
		CanGroup:   canGroup,
	}
	var beh components.Behavior
	systems.InitBehavior(&beh, &g.cfg.Behavior, g.rng, direction)

	var legs components.LegSet
	systems.InitLegs(&legs, spec.LegCount, spec.Upper, spec.Lower, pos.Vec(), &body, direction, &g.cfg.Gait)

	entity := g.mapper.NewEntity(&pos, &vel, &body, &beh, &legs)
	g.alive++
	g.lifetimeTracker.Register(id, g.tick, g.variantName(variant))

	if g.logStats {
		slog.Info("creature_spawned",
			"id", id,
			"archetype", g.variantName(variant),
			"surface", spec.Surface.String(),
			"state", beh.State.String(),
		)
	}
	return entity
}

// variantName returns the archetype name for a variant index.
func (g *Game) variantName(variant uint8) string {
	if int(variant) < len(g.cfg.Archetypes) {
		return g.cfg.Archetypes[variant].Name
	}
	return "custom"
}

// spawnInitialPopulation creates the configured explicit spawns, then the
// random floor and wall population.
func (g *Game) spawnInitialPopulation() error {
	cfg := g.cfg

	for i, sc := range cfg.Spawns {
		spec, err := specFromConfig(sc)
		if err != nil {
			return fmt.Errorf("spawns[%d]: %w", i, err)
		}
		if _, err := g.Spawn(spec); err != nil {
			return fmt.Errorf("spawns[%d]: %w", i, err)
		}
	}

	if len(cfg.Archetypes) == 0 {
		return nil
	}
	for i := 0; i < cfg.Population.Floor; i++ {
		if err := g.spawnRandom(components.Floor); err != nil {
			return err
		}
	}
	for i := 0; i < cfg.Population.Wall; i++ {
		surface := components.LeftWall
		if i%2 == 1 {
			surface = components.RightWall
		}
		if err := g.spawnRandom(surface); err != nil {
			return err
		}
	}
	return nil
}

// spawnRandom places one creature of a random archetype at a random point of
// surface, with the archetype's scale jitter applied.
func (g *Game) spawnRandom(surface components.Surface) error {
	arch := &g.cfg.Archetypes[g.rng.Intn(len(g.cfg.Archetypes))]
	scale := arch.Scale * (1 + (g.rng.Float64()*2-1)*arch.ScaleJitter)

	bounds := g.surfaceBounds(surface, arch.BodyLength*scale)
	at := bounds.Min + g.rng.Float64()*(bounds.Max-bounds.Min)

	spec := CreatureSpec{
		Archetype: arch.Name,
		Surface:   surface,
		Bounds:    bounds,
		Scale:     scale,
	}
	if surface == components.Floor {
		spec.Pos.X = at
	} else {
		spec.Pos.Y = at
	}

	if _, err := g.Spawn(spec); err != nil {
		return fmt.Errorf("population %s: %w", surface, err)
	}
	return nil
}

// specFromConfig converts a config spawn entry.
func specFromConfig(sc config.SpawnConfig) (CreatureSpec, error) {
	surface, ok := components.ParseSurface(sc.Surface)
	if !ok {
		return CreatureSpec{}, invalidSpec("unknown surface %q", sc.Surface)
	}
	return CreatureSpec{
		Archetype: sc.Archetype,
		Surface:   surface,
		Pos:       r2.Vec{X: sc.X, Y: sc.Y},
		Bounds:    components.Bounds{Min: sc.Bounds[0], Max: sc.Bounds[1]},
		LegCount:  sc.LegCount,
		Upper:     sc.Upper,
		Lower:     sc.Lower,
		Speed:     sc.Speed,
		Scale:     sc.Scale,
		Exempt:    sc.Exempt,
	}, nil
}

// acrossAxis returns the coordinate of p perpendicular to the surface axis.
func acrossAxis(s components.Surface, p r2.Vec) float64 {
	if s == components.Floor {
		return p.Y
	}
	return p.X
}

func orFloat(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
