package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents a creature's body center in world coordinates.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Set assigns the position from a vector.
func (p *Position) Set(v r2.Vec) {
	p.X, p.Y = v.X, v.Y
}

// Velocity represents a creature's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

// Zero stops all motion.
func (v *Velocity) Zero() {
	v.X, v.Y = 0, 0
}
