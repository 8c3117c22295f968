package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
)

// Base step orders, indexed by leg. Leg layout for four legs:
// 0 = front/+side, 1 = front/-side, 2 = back/+side, 3 = back/-side.
// Two-legged creatures use 0 = front, 1 = back.
var (
	sequence4 = [components.MaxLegs]uint8{1, 2, 0, 3}
	sequence2 = [components.MaxLegs]uint8{0, 1}
)

// movingEpsilon is the axis speed below which a creature counts as standing.
const movingEpsilon = 1e-3

// GaitSystem places feet. At most one limb steps at a time in normal
// operation; emergency steps are the only exception.
// Creatures are independent here, so large populations are stepped on a
// worker pool; events are still emitted in query order.
type GaitSystem struct {
	filter ecs.Filter5[components.Position, components.Velocity, components.Body, components.Behavior, components.LegSet]
	cfg    *config.GaitConfig

	jobs      []gaitJob
	pool      *workerPool
	threshold int
}

// NewGaitSystem creates a new gait system.
func NewGaitSystem(w *ecs.World, cfg *config.GaitConfig) *GaitSystem {
	return &GaitSystem{
		filter:    *ecs.NewFilter5[components.Position, components.Velocity, components.Body, components.Behavior, components.LegSet](w),
		cfg:       cfg,
		jobs:      make([]gaitJob, 0, 256),
		pool:      newWorkerPool(),
		threshold: parallelThreshold,
	}
}

// Close stops the worker pool. The system may still be used afterwards; the
// pool restarts on demand.
func (s *GaitSystem) Close() {
	s.pool.stop()
}

// SetConfig swaps the gait parameters, used on config reload.
func (s *GaitSystem) SetConfig(cfg *config.GaitConfig) {
	s.cfg = cfg
}

// Update advances every creature's limbs by dt.
func (s *GaitSystem) Update(dt float64, events *EventBuffer) {
	s.jobs = s.jobs[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, beh, legs := query.Get()
		s.jobs = append(s.jobs, gaitJob{Pos: pos.Vec(), Vel: vel.Vec(), Body: body, Beh: beh, Legs: legs})
	}

	n := len(s.jobs)
	if n < s.threshold || s.pool.numWorkers < 2 {
		s.runChunk(workChunk{start: 0, end: n, dt: dt})
	} else {
		s.pool.start(s.runChunk)
		s.pool.dispatch(n, dt)
	}

	for i := range s.jobs {
		j := &s.jobs[i]
		for k := 0; k < j.Emergencies; k++ {
			events.Emit(Event{Type: EventEmergencyStep, CreatureID: j.Body.ID, Pos: j.Pos})
		}
	}
}

func (s *GaitSystem) runChunk(chunk workChunk) {
	for i := chunk.start; i < chunk.end; i++ {
		j := &s.jobs[i]
		j.Emergencies = StepGait(s.cfg, j.Pos, j.Vel, j.Body, j.Beh, j.Legs, chunk.dt)
	}
}

// LegReach returns the scaled full reach of one limb.
func LegReach(legs *components.LegSet, body *components.Body) float64 {
	return (legs.Upper + legs.Lower) * body.Scale
}

// InitLegs lays out count limbs around a creature at pos and plants every
// foot on its standing target.
func InitLegs(legs *components.LegSet, count int, upper, lower float64, pos r2.Vec, body *components.Body, facing float64, cfg *config.GaitConfig) {
	*legs = components.LegSet{
		Count:  uint8(count),
		Upper:  upper,
		Lower:  lower,
		Facing: sign(facing),
	}

	axis := body.Surface.Axis()
	normal := body.Surface.Normal()
	for i := 0; i < count; i++ {
		limb := &legs.Legs[i]
		if count == 4 {
			limb.Front = i < 2
			limb.Side = 1
			if i%2 == 1 {
				limb.Side = -1
			}
		} else {
			limb.Front = i == 0
			// Knees point away from the body center
			limb.Side = -1
			if i == 1 {
				limb.Side = 1
			}
		}

		along := -0.8
		if limb.Front {
			along = 0.8
		}
		tuck := r2.Add(r2.Scale(-1, normal), r2.Scale(along, axis))
		limb.BaseAngle = math.Atan2(tuck.Y, tuck.X)
	}

	resetSequence(legs)
	for i := 0; i < count; i++ {
		limb := &legs.Legs[i]
		limb.Foot = IdealFoot(cfg, pos, body, legs, limb, false)
		limb.Target = limb.Foot
		limb.StepStart = limb.Foot
	}
}

// AttachPoint returns where limb meets the body, including the scare sag.
func AttachPoint(pos r2.Vec, body *components.Body, dropOffset float64, limb *components.Limb) r2.Vec {
	along := -0.5 * body.BodyLength * body.Scale
	if limb.Front {
		along = -along
	}
	p := r2.Add(pos, r2.Scale(along, body.Surface.Axis()))
	return r2.Sub(p, r2.Scale(dropOffset, body.Surface.Normal()))
}

// LegGeometry returns the drawable pose of limb i: the attachment, the solved
// knee and the reachable end of the leg toward its foot.
func LegGeometry(pos r2.Vec, body *components.Body, beh *components.Behavior, legs *components.LegSet, i int) (attach, joint, foot r2.Vec) {
	limb := &legs.Legs[i]
	attach = AttachPoint(pos, body, beh.DropOffset, limb)
	joint, foot = LimbPose(attach, limb.Foot, legs.Upper*body.Scale, legs.Lower*body.Scale, limb.Side)
	return attach, joint, foot
}

// IdealFoot returns where limb would rest if planted right now. Moving
// creatures reach ahead along their facing.
func IdealFoot(cfg *config.GaitConfig, pos r2.Vec, body *components.Body, legs *components.LegSet, limb *components.Limb, moving bool) r2.Vec {
	reach := LegReach(legs, body)
	axis := body.Surface.Axis()

	forward := 0.0
	if moving {
		forward = legs.Facing * cfg.Stride * reach
	}
	lateral := limb.Side * cfg.Lateral * reach

	foot := AttachPoint(pos, body, 0, limb)
	foot = r2.Sub(foot, r2.Scale(cfg.StandHeight*reach, body.Surface.Normal()))
	return r2.Add(foot, r2.Scale(forward+lateral, axis))
}

// StepGait advances one creature's limbs by dt and returns the number of
// emergency steps started this tick.
func StepGait(cfg *config.GaitConfig, pos, vel r2.Vec, body *components.Body, beh *components.Behavior, legs *components.LegSet, dt float64) int {
	if legs.Count == 0 {
		return 0
	}
	if beh.State == components.Scared || beh.State == components.Recovering {
		crouch(cfg, pos, body, beh, legs, dt)
		return 0
	}

	axisSpeed := body.Surface.Component(vel)
	moving := beh.State != components.Grouped && math.Abs(axisSpeed) > movingEpsilon
	if moving && sign(axisSpeed) != legs.Facing {
		legs.Facing = sign(axisSpeed)
		resetSequence(legs)
	}

	reach := LegReach(legs, body)
	normal := body.Surface.Normal()

	// Animate steps in flight
	for i := uint8(0); i < legs.Count; i++ {
		limb := &legs.Legs[i]
		if !limb.Stepping {
			continue
		}
		limb.Progress += dt / cfg.StepDuration
		if limb.Progress >= 1 {
			limb.Foot = limb.Target
			limb.Stepping = false
			limb.Progress = 0
			limb.StepCount++
			legs.Steps++
			continue
		}
		t := limb.Progress
		lift := cfg.ArcHeight * reach * math.Sin(math.Pi*t)
		limb.Foot = r2.Add(lerp(limb.StepStart, limb.Target, t), r2.Scale(lift, normal))
	}

	threshold := cfg.StepThreshold * reach

	// Emergency steps ignore the sequence and the one-at-a-time rule
	emergencies := 0
	turnLeg := legs.Sequence[legs.TurnIndex]
	for i := uint8(0); i < legs.Count; i++ {
		limb := &legs.Legs[i]
		if limb.Stepping {
			continue
		}
		ideal := IdealFoot(cfg, pos, body, legs, limb, moving)
		if r2.Norm(r2.Sub(limb.Foot, ideal)) > threshold*cfg.EmergencyMultiplier {
			beginStep(limb, ideal)
			emergencies++
			legs.EmergencySteps++
			if i == turnLeg {
				advanceTurn(legs)
			}
		}
	}

	if legs.SteppingCount() > 0 {
		return emergencies
	}

	limb := &legs.Legs[legs.Sequence[legs.TurnIndex]]
	ideal := IdealFoot(cfg, pos, body, legs, limb, moving)
	if r2.Norm(r2.Sub(limb.Foot, ideal)) > threshold {
		beginStep(limb, ideal)
		advanceTurn(legs)
	}
	return emergencies
}

// crouch cancels any step and pulls each foot toward its tucked pose.
func crouch(cfg *config.GaitConfig, pos r2.Vec, body *components.Body, beh *components.Behavior, legs *components.LegSet, dt float64) {
	reach := LegReach(legs, body)
	f := smoothFactor(cfg.CrouchRate, dt)
	for i := uint8(0); i < legs.Count; i++ {
		limb := &legs.Legs[i]
		limb.Stepping = false
		limb.Progress = 0

		attach := AttachPoint(pos, body, beh.DropOffset, limb)
		dir := r2.Vec{X: math.Cos(limb.BaseAngle), Y: math.Sin(limb.BaseAngle)}
		tucked := r2.Add(attach, r2.Scale(cfg.CrouchFraction*reach, dir))
		limb.Foot = lerp(limb.Foot, tucked, f)
		limb.Target = limb.Foot
	}
}

func beginStep(limb *components.Limb, target r2.Vec) {
	limb.StepStart = limb.Foot
	limb.Target = target
	limb.Stepping = true
	limb.Progress = 0
}

func advanceTurn(legs *components.LegSet) {
	legs.TurnIndex = (legs.TurnIndex + 1) % legs.Count
}

// resetSequence rebuilds the step order for the current facing. Facing
// backwards mirrors front and back legs on the same side.
func resetSequence(legs *components.LegSet) {
	base := sequence4
	mirror := uint8(2)
	if legs.Count == 2 {
		base = sequence2
		mirror = 1
	}
	for i := uint8(0); i < legs.Count; i++ {
		leg := base[i]
		if legs.Facing < 0 {
			leg ^= mirror
		}
		legs.Sequence[i] = leg
	}
	legs.TurnIndex = 0
}
