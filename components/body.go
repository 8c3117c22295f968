package components

import "gonum.org/v1/gonum/spatial/r2"

// Surface is the plane a creature is attached to.
type Surface uint8

const (
	Floor Surface = iota
	LeftWall
	RightWall
)

// String returns the config name of the surface.
func (s Surface) String() string {
	switch s {
	case Floor:
		return "floor"
	case LeftWall:
		return "left_wall"
	case RightWall:
		return "right_wall"
	default:
		return "unknown"
	}
}

// ParseSurface maps a config name to a Surface.
func ParseSurface(name string) (Surface, bool) {
	switch name {
	case "floor", "":
		return Floor, true
	case "left_wall":
		return LeftWall, true
	case "right_wall":
		return RightWall, true
	}
	return Floor, false
}

// Axis returns the unit vector of the surface's movement axis.
// Floor creatures move along X, wall creatures along Y.
func (s Surface) Axis() r2.Vec {
	if s == Floor {
		return r2.Vec{X: 1}
	}
	return r2.Vec{Y: 1}
}

// Normal returns the unit vector pointing away from the surface, into open space.
// Screen coordinates: +Y is down.
func (s Surface) Normal() r2.Vec {
	switch s {
	case LeftWall:
		return r2.Vec{X: 1}
	case RightWall:
		return r2.Vec{X: -1}
	default:
		return r2.Vec{Y: -1}
	}
}

// Component returns the coordinate of v along the surface axis.
func (s Surface) Component(v r2.Vec) float64 {
	if s == Floor {
		return v.X
	}
	return v.Y
}

// Bounds limits a creature's travel along its surface axis.
type Bounds struct {
	Min, Max float64
}

// Contains reports whether x lies inside the bounds.
func (b Bounds) Contains(x float64) bool {
	return x >= b.Min && x <= b.Max
}

// Clamp returns x limited to the bounds.
func (b Bounds) Clamp(x float64) float64 {
	if x < b.Min {
		return b.Min
	}
	if x > b.Max {
		return b.Max
	}
	return x
}

// Body holds a creature's identity and fixed construction parameters.
type Body struct {
	ID         uint32  `inspect:"label"`
	Variant    uint8   `inspect:"label"` // archetype index
	Surface    Surface `inspect:"label"`
	Scale      float64 `inspect:"label,fmt:%.2f"`
	BodyLength float64 `inspect:"label,fmt:%.1f"`
	Speed      float64 `inspect:"label,fmt:%.1f"` // crawl speed, already scaled
	Bounds     Bounds
	Plane      float64 `inspect:"label,fmt:%.0f"` // resting body coordinate across the axis (Y on the floor, X on walls)
	Exempt     bool    `inspect:"bool"`           // never joins a group
	CanGroup   bool    `inspect:"bool"`           // archetype capability
}
