package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// pickSlack is added to a creature's body radius when hit testing, in world
// units.
const pickSlack = 6.0

// pickCreature returns the creature under a screen point, if any.
func (g *Game) pickCreature(sx, sy float32) (ecs.Entity, bool) {
	wx, wy := g.camera.ScreenToWorld(sx, sy)
	return g.CreatureAt(r2.Vec{X: float64(wx), Y: float64(wy)})
}

// CreatureAt returns the creature whose body is closest to p, if p is within
// its hit radius.
func (g *Game) CreatureAt(p r2.Vec) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := -1.0

	query := g.filter.Query()
	for query.Next() {
		pos, _, body, _, _ := query.Get()
		d := r2.Norm(r2.Sub(p, pos.Vec()))
		if d > hitRadius(body.BodyLength, body.Scale) {
			continue
		}
		if closestDist < 0 || d < closestDist {
			closest, closestDist = query.Entity(), d
		}
	}
	return closest, closestDist >= 0
}

func hitRadius(bodyLength, scale float64) float64 {
	return bodyLength*scale*0.6 + pickSlack
}
