package renderer

import (
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crawl/components"
)

// Limb is one leg ready to draw: attachment, knee and foot in world units.
type Limb struct {
	Attach, Joint, Foot rl.Vector2
	Stepping            bool
}

// Creature is one crawler ready to draw.
type Creature struct {
	Pos        rl.Vector2
	Surface    components.Surface
	State      components.CreatureState
	Scale      float32
	BodyLength float32
	DropOffset float32
	Direction  float32
	LegCount   int
	Legs       [components.MaxLegs]Limb
	Tinted     bool // color the body by State
}

// stateColors tints bodies by behavior state.
var stateColors = [components.StateCount]rl.Color{
	components.Crawling:   {R: 196, G: 150, B: 90, A: 255},
	components.Stopping:   {R: 170, G: 140, B: 100, A: 255},
	components.Scared:     {R: 220, G: 90, B: 70, A: 255},
	components.Recovering: {R: 210, G: 160, B: 80, A: 255},
	components.Grouped:    {R: 120, G: 170, B: 110, A: 255},
}

// CreatureRenderer draws crawler bodies and legs.
type CreatureRenderer struct {
	bodyColor rl.Color
	legColor  rl.Color
	footColor rl.Color
}

// NewCreatureRenderer creates a creature renderer.
func NewCreatureRenderer() *CreatureRenderer {
	return &CreatureRenderer{
		bodyColor: rl.Color{R: 150, G: 120, B: 86, A: 255},
		legColor:  rl.Color{R: 60, G: 44, B: 32, A: 255},
		footColor: rl.Color{R: 40, G: 30, B: 24, A: 255},
	}
}

// Draw renders one creature. Call inside BeginMode2D.
func (r *CreatureRenderer) Draw(c *Creature) {
	thickness := 1.6 * c.Scale

	// Legs behind the body
	for i := 0; i < c.LegCount; i++ {
		l := &c.Legs[i]
		rl.DrawLineEx(l.Attach, l.Joint, thickness, r.legColor)
		rl.DrawLineEx(l.Joint, l.Foot, thickness*0.8, r.legColor)
		rl.DrawCircleV(l.Joint, thickness*0.6, r.legColor)
		if !l.Stepping {
			rl.DrawCircleV(l.Foot, thickness*0.5, r.footColor)
		}
	}

	// Body: an ellipse along the surface axis, sagging toward the surface
	center := c.Pos
	switch c.Surface {
	case components.Floor:
		center.Y += c.DropOffset
	case components.LeftWall:
		center.X -= c.DropOffset
	case components.RightWall:
		center.X += c.DropOffset
	}

	halfLen := c.BodyLength * c.Scale * 0.6
	halfThick := halfLen * 0.55
	color := r.bodyColor
	if c.Tinted {
		color = stateColors[c.State]
	}

	radiusH, radiusV := halfLen, halfThick
	if c.Surface != components.Floor {
		radiusH, radiusV = halfThick, halfLen
	}
	rl.DrawEllipse(int32(center.X), int32(center.Y), radiusH, radiusV, color)

	// Eye at the leading end
	eye := center
	lead := c.Direction * halfLen * 0.6
	if c.Surface == components.Floor {
		eye.X += lead
		eye.Y -= halfThick * 0.3
	} else {
		eye.Y += lead
	}
	rl.DrawCircleV(eye, math32Max(1, halfThick*0.25), rl.Color{R: 20, G: 16, B: 12, A: 255})
}

// DrawHero renders the hero and its scare radius. Call inside BeginMode2D.
func (r *CreatureRenderer) DrawHero(pos rl.Vector2, scareRadius float32) {
	rl.DrawCircleLinesV(pos, scareRadius, rl.Color{R: 220, G: 90, B: 70, A: 70})
	rl.DrawRectangleRec(rl.Rectangle{X: pos.X - 8, Y: pos.Y - 24, Width: 16, Height: 48}, rl.Color{R: 90, G: 140, B: 220, A: 255})
}

// DrawGroup outlines a pyramid's centroid and its stomp radius.
func (r *CreatureRenderer) DrawGroup(centroid rl.Vector2, stompRadius float32, size int) {
	rl.DrawCircleLinesV(centroid, stompRadius, rl.Color{R: 120, G: 170, B: 110, A: 60})
	rl.DrawText(strconv.Itoa(size), int32(centroid.X)-4, int32(centroid.Y-stompRadius)-12, 10, rl.Color{R: 160, G: 200, B: 150, A: 200})
}

func math32Max(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}
