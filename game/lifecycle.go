package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/systems"
)

// Despawn removes a creature from the level. Its group, if any, drops it on
// the next Step. Returns false if e is not alive.
func (g *Game) Despawn(e ecs.Entity) bool {
	if !g.world.Alive(e) {
		return false
	}
	body := g.bodyMap.Get(e)
	id := body.ID

	if stats := g.lifetimeTracker.Remove(id); stats != nil && g.logStats {
		slog.Info("creature_despawned",
			"id", id,
			"archetype", stats.Archetype,
			"survival_time", stats.SurvivalTimeSec,
			"scares", stats.Scares,
			"steps", stats.Steps,
		)
	}

	g.world.RemoveEntity(e)
	g.alive--
	if g.selected == e {
		g.selected = ecs.Entity{}
	}
	return true
}

// DestroyGroup disbands the group with the given ID, releasing every member
// with a scatter impulse. The events are reported by the next Step.
func (g *Game) DestroyGroup(id uint32) bool {
	return g.grouping.Disband(id, &g.pending)
}

// applyGroupPolicy knocks over pyramids the hero walks into and pyramids
// that stopped growing.
func (g *Game) applyGroupPolicy(hero HeroInput, events *systems.EventBuffer) {
	gc := &g.cfg.Group

	var doomed []uint32
	for _, grp := range g.grouping.Groups() {
		switch {
		case hero.Present && gc.StompRadius > 0 &&
			r2.Norm(r2.Sub(hero.Pos, grp.Centroid)) <= gc.StompRadius*grp.Scale:
			doomed = append(doomed, grp.ID)
			if g.logStats {
				slog.Info("group_stomped", "group", grp.ID, "size", grp.Size())
			}
		case gc.MaxIdle > 0 && grp.FormationTimer > gc.MaxIdle:
			doomed = append(doomed, grp.ID)
			if g.logStats {
				slog.Info("group_expired", "group", grp.ID, "size", grp.Size(), "age", grp.Age)
			}
		}
	}

	for _, id := range doomed {
		g.grouping.Disband(id, events)
	}
}

// nearestGroup returns the ID of the group whose centroid is closest to p.
func (g *Game) nearestGroup(p r2.Vec) (uint32, bool) {
	var best uint32
	bestDist := -1.0
	for _, grp := range g.grouping.Groups() {
		d := r2.Norm(r2.Sub(p, grp.Centroid))
		if bestDist < 0 || d < bestDist {
			best, bestDist = grp.ID, d
		}
	}
	return best, bestDist >= 0
}
