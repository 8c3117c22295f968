package game

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/systems"
	"github.com/pthm-cable/crawl/telemetry"
)

// LegView is the drawable pose of one limb.
type LegView struct {
	Attach   r2.Vec
	Joint    r2.Vec
	Foot     r2.Vec
	Target   r2.Vec // landing point while Stepping
	Stepping bool
}

// CreatureView is a read-only copy of one creature's drawable state.
type CreatureView struct {
	Entity     ecs.Entity
	ID         uint32
	Archetype  string
	Surface    components.Surface
	Pos        r2.Vec
	Bounds     components.Bounds
	Scale      float64
	BodyLength float64
	DropOffset float64
	Direction  float64
	State      components.CreatureState
	GroupID    uint32
	Legs       []LegView
}

// Creatures returns a view of every creature in ascending ID order.
func (g *Game) Creatures() []CreatureView {
	views := make([]CreatureView, 0, g.alive)

	query := g.filter.Query()
	for query.Next() {
		pos, _, body, beh, legs := query.Get()
		v := CreatureView{
			Entity:     query.Entity(),
			ID:         body.ID,
			Archetype:  g.variantName(body.Variant),
			Surface:    body.Surface,
			Pos:        pos.Vec(),
			Bounds:     body.Bounds,
			Scale:      body.Scale,
			BodyLength: body.BodyLength,
			DropOffset: beh.DropOffset,
			Direction:  beh.Direction,
			State:      beh.State,
			GroupID:    beh.GroupID,
			Legs:       make([]LegView, legs.Count),
		}
		for i := range v.Legs {
			attach, joint, foot := systems.LegGeometry(v.Pos, body, beh, legs, i)
			limb := &legs.Legs[i]
			v.Legs[i] = LegView{Attach: attach, Joint: joint, Foot: foot, Target: limb.Target, Stepping: limb.Stepping}
		}
		views = append(views, v)
	}

	slices.SortFunc(views, func(a, b CreatureView) int {
		return int(a.ID) - int(b.ID)
	})
	return views
}

// Snapshot captures the full simulation state, creatures in ID order.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.seed,
		WorldWidth:  g.cfg.World.Width,
		WorldHeight: g.cfg.World.Height,
		Tick:        g.tick,
		SimTimeSec:  g.simTime,
		Creatures:   []telemetry.CreatureState{},
		Groups:      []telemetry.GroupState{},
	}
	if g.hero.Present {
		snap.Hero = &telemetry.HeroState{X: g.hero.Pos.X, Y: g.hero.Pos.Y}
	}

	query := g.filter.Query()
	for query.Next() {
		pos, vel, body, beh, legs := query.Get()
		state := telemetry.CreatureState{
			ID:                    body.ID,
			Archetype:             g.variantName(body.Variant),
			Surface:               body.Surface.String(),
			Exempt:                body.Exempt,
			X:                     pos.X,
			Y:                     pos.Y,
			VelX:                  vel.X,
			VelY:                  vel.Y,
			State:                 beh.State.String(),
			StateTimer:            beh.StateTimer,
			Direction:             beh.Direction,
			DropOffset:            beh.DropOffset,
			JustRecoveredCooldown: beh.JustRecoveredCooldown,
			ScatterTimer:          beh.ScatterTimer,
			GroupID:               beh.GroupID,
			Legs:                  make([]telemetry.LegState, legs.Count),
			Lifetime:              g.lifetimeTracker.Get(body.ID).ToJSON(),
		}
		for i, limb := range legs.Active() {
			state.Legs[i] = telemetry.LegState{
				FootX:    limb.Foot.X,
				FootY:    limb.Foot.Y,
				Stepping: limb.Stepping,
				Progress: limb.Progress,
			}
		}
		snap.Creatures = append(snap.Creatures, state)
	}
	slices.SortFunc(snap.Creatures, func(a, b telemetry.CreatureState) int {
		return int(a.ID) - int(b.ID)
	})

	for _, grp := range g.grouping.Groups() {
		gs := telemetry.GroupState{
			ID:             grp.ID,
			CentroidX:      grp.Centroid.X,
			CentroidY:      grp.Centroid.Y,
			FormationTimer: grp.FormationTimer,
			Age:            grp.Age,
		}
		for _, e := range grp.Members {
			if g.world.Alive(e) {
				gs.Members = append(gs.Members, g.bodyMap.Get(e).ID)
			}
		}
		snap.Groups = append(snap.Groups, gs)
	}
	return snap
}
