package systems

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
)

// Hero is the scare input for one tick. A missing hero (Present == false)
// disables scare evaluation for that tick.
type Hero struct {
	Present bool
	Pos     r2.Vec
}

// BehaviorSystem runs the per-creature state machine. It owns velocity for
// every creature that is not Grouped.
type BehaviorSystem struct {
	filter ecs.Filter4[components.Position, components.Velocity, components.Body, components.Behavior]
	cfg    *config.Config
	rng    Rand

	lastHero  r2.Vec
	heroKnown bool
}

// NewBehaviorSystem creates a new behavior system drawing from rng.
func NewBehaviorSystem(w *ecs.World, cfg *config.Config, rng Rand) *BehaviorSystem {
	return &BehaviorSystem{
		filter: *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Behavior](w),
		cfg:    cfg,
		rng:    rng,
	}
}

// SetConfig swaps the configuration, used on config reload.
func (s *BehaviorSystem) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Update advances every creature's state machine by dt.
func (s *BehaviorSystem) Update(dt float64, hero Hero, events *EventBuffer) {
	if hero.Present {
		s.lastHero = hero.Pos
		s.heroKnown = true
	}

	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, beh := query.Get()
		s.updateCreature(pos, vel, body, beh, hero, dt, events)
	}
}

// InitBehavior rolls the starting state of a new creature: Crawling with the
// configured chance, else Stopping, part way through its first interval.
func InitBehavior(beh *components.Behavior, cfg *config.BehaviorConfig, rng Rand, direction float64) {
	*beh = components.Behavior{Direction: sign(direction)}
	beh.CrawlDuration = uniform(rng, cfg.CrawlDuration.Min, cfg.CrawlDuration.Max)
	beh.StopDuration = uniform(rng, cfg.StopDuration.Min, cfg.StopDuration.Max)
	beh.ScareDuration = uniform(rng, cfg.ScareDuration.Min, cfg.ScareDuration.Max)

	if rng.Float64() < cfg.InitialCrawlChance {
		beh.State = components.Crawling
		beh.StateTimer = rng.Float64() * beh.CrawlDuration
	} else {
		beh.State = components.Stopping
		beh.StateTimer = rng.Float64() * beh.StopDuration
	}
}

func (s *BehaviorSystem) updateCreature(pos *components.Position, vel *components.Velocity, body *components.Body, beh *components.Behavior, hero Hero, dt float64, events *EventBuffer) {
	// The group is the sole writer for its members
	if beh.State == components.Grouped {
		return
	}

	beh.JustRecoveredCooldown = math.Max(0, beh.JustRecoveredCooldown-dt)
	s.advance(pos, vel, body, beh, hero, dt, events)

	// Sag toward the surface while scared, rise back otherwise. Runs after
	// the transitions so a scare starts sagging on the tick it happens.
	bc := &s.cfg.Behavior
	dropMax := bc.DropMax * body.Scale
	dropStep := dropMax * dt / bc.DropTime
	if beh.State == components.Scared {
		beh.DropOffset = approach(beh.DropOffset, dropMax, dropStep)
	} else {
		beh.DropOffset = approach(beh.DropOffset, 0, dropStep)
	}
}

// advance runs the transitions and per-state motion for one creature.
func (s *BehaviorSystem) advance(pos *components.Position, vel *components.Velocity, body *components.Body, beh *components.Behavior, hero Hero, dt float64, events *EventBuffer) {
	bc := &s.cfg.Behavior
	if hero.Present && (beh.State == components.Crawling || beh.State == components.Stopping) && beh.JustRecoveredCooldown <= 0 {
		if r2.Norm(r2.Sub(pos.Vec(), hero.Pos)) <= bc.ScareRadius*body.Scale {
			s.enterScared(vel, beh)
			events.Emit(NewScaredEvent(body.ID, pos.Vec()))
			return
		}
	}

	switch beh.State {
	case components.Crawling:
		s.crawl(pos, vel, body, beh, dt)
	case components.Stopping:
		beh.StateTimer += dt
		vel.Zero()
		if beh.StateTimer >= beh.StopDuration {
			transition(beh, components.Crawling)
			beh.Direction = 1
			if s.rng.Float64() < 0.5 {
				beh.Direction = -1
			}
			beh.CrawlDuration = uniform(s.rng, bc.CrawlDuration.Min, bc.CrawlDuration.Max)
			keepInBounds(pos, body, beh, body.Speed, dt)
			setAxisVelocity(vel, body, beh.Direction*body.Speed)
		}
	case components.Scared:
		beh.StateTimer += dt
		vel.Zero()
		if beh.StateTimer >= beh.ScareDuration {
			transition(beh, components.Recovering)
			beh.RecoverTimer = 0
			beh.EscapeDir = s.escapeDirection(pos, body)
		}
	case components.Recovering:
		beh.StateTimer += dt
		beh.RecoverTimer += dt
		vel.Zero()
		if beh.RecoverTimer >= bc.RecoverTime {
			transition(beh, components.Crawling)
			beh.Direction = beh.EscapeDir
			beh.CrawlDuration = uniform(s.rng, bc.CrawlDuration.Min, bc.CrawlDuration.Max)
			beh.JustRecoveredCooldown = bc.RecoverCooldown
			fleeSpeed := body.Speed * bc.FleeMultiplier
			keepInBounds(pos, body, beh, fleeSpeed, dt)
			setAxisVelocity(vel, body, beh.Direction*fleeSpeed)
			events.Emit(NewRecoveredEvent(body.ID, pos.Vec()))
		}
	}
}

// crawl handles the Crawling state, including the scatter sub-phase.
func (s *BehaviorSystem) crawl(pos *components.Position, vel *components.Velocity, body *components.Body, beh *components.Behavior, dt float64) {
	bc := &s.cfg.Behavior

	var speed float64
	if beh.Scattering() {
		// Thrown clear of a group: impulse decays to crawl speed, crawl clock paused
		gc := &s.cfg.Group
		beh.ScatterTimer = math.Max(0, beh.ScatterTimer-dt)
		frac := beh.ScatterTimer / gc.ScatterDuration
		speed = body.Speed + (gc.ScatterSpeed*body.Scale-body.Speed)*frac
		beh.Direction = beh.ScatterDir
		if !beh.Scattering() {
			beh.StateTimer = 0
		}
	} else {
		beh.StateTimer += dt
		if beh.StateTimer >= beh.CrawlDuration {
			transition(beh, components.Stopping)
			beh.StopDuration = uniform(s.rng, bc.StopDuration.Min, bc.StopDuration.Max)
			vel.Zero()
			return
		}
		speed = body.Speed
		// Flee boost fades out over the recovery cooldown
		if beh.JustRecoveredCooldown > 0 && bc.RecoverCooldown > 0 {
			speed *= 1 + (bc.FleeMultiplier-1)*beh.JustRecoveredCooldown/bc.RecoverCooldown
		}
	}

	keepInBounds(pos, body, beh, speed, dt)
	setAxisVelocity(vel, body, beh.Direction*speed)
}

// keepInBounds reverses a crawling creature before its next step would reach
// a bound. The reversal starts a fresh crawl interval.
func keepInBounds(pos *components.Position, body *components.Body, beh *components.Behavior, speed, dt float64) {
	axisPos := body.Surface.Component(pos.Vec())
	next := axisPos + beh.Direction*speed*dt
	if (beh.Direction > 0 && next >= body.Bounds.Max) || (beh.Direction < 0 && next <= body.Bounds.Min) {
		beh.Direction = -beh.Direction
		if beh.Scattering() {
			beh.ScatterDir = beh.Direction
		} else {
			beh.StateTimer = 0
		}
	}
}

func (s *BehaviorSystem) enterScared(vel *components.Velocity, beh *components.Behavior) {
	bc := &s.cfg.Behavior
	transition(beh, components.Scared)
	beh.ScareDuration = uniform(s.rng, bc.ScareDuration.Min, bc.ScareDuration.Max)
	beh.ScatterTimer = 0
	vel.Zero()
}

// escapeDirection points away from the last known hero position along the
// creature's axis. Exactly aligned creatures pick a side at random.
func (s *BehaviorSystem) escapeDirection(pos *components.Position, body *components.Body) float64 {
	var d float64
	if s.heroKnown {
		d = body.Surface.Component(r2.Sub(pos.Vec(), s.lastHero))
	}
	if d > 0 {
		return 1
	}
	if d < 0 {
		return -1
	}
	if s.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

// transition moves beh to state to and restarts its state clock. Edges not
// in the state machine are programming errors.
func transition(beh *components.Behavior, to components.CreatureState) {
	if !components.CanTransition(beh.State, to) {
		panic(fmt.Sprintf("behavior: illegal transition %s -> %s", beh.State, to))
	}
	beh.State = to
	beh.StateTimer = 0
}

func setAxisVelocity(vel *components.Velocity, body *components.Body, v float64) {
	vel.Zero()
	if body.Surface == components.Floor {
		vel.X = v
	} else {
		vel.Y = v
	}
}
