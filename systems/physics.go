// Package systems contains ECS systems for the simulation.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crawl/components"
)

// fallSpeed is how fast a displaced creature returns to its surface, px/s.
const fallSpeed = 240.0

// PhysicsSystem updates creature positions based on velocity. Grouped
// creatures are positioned by their group and skipped here.
type PhysicsSystem struct {
	filter ecs.Filter4[components.Position, components.Velocity, components.Body, components.Behavior]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Behavior](w),
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, beh := query.Get()
		Integrate(pos, vel, body, beh, dt)
	}
}

// Integrate moves one creature along its surface axis and keeps it in bounds.
func Integrate(pos *components.Position, vel *components.Velocity, body *components.Body, beh *components.Behavior, dt float64) {
	if beh.State == components.Grouped {
		return
	}

	pos.X += vel.X * dt
	pos.Y += vel.Y * dt

	// Surface creatures never leave their axis range. Creatures released high
	// up a pyramid drop back onto their surface.
	if body.Surface == components.Floor {
		pos.X = body.Bounds.Clamp(pos.X)
		pos.Y = approach(pos.Y, body.Plane, fallSpeed*dt)
	} else {
		pos.Y = body.Bounds.Clamp(pos.Y)
		pos.X = approach(pos.X, body.Plane, fallSpeed*dt)
	}

	speed := math.Hypot(vel.X, vel.Y)
	if speed > movingEpsilon {
		beh.MovementAngle = math.Atan2(vel.Y, vel.X)
		beh.DistanceTraveled += speed * dt
	}
}
