package components

import "gonum.org/v1/gonum/spatial/r2"

// MaxLegs is the largest supported leg count.
const MaxLegs = 4

// Limb is one two-segment leg. Limbs live inside their creature's LegSet and
// are addressed by index.
type Limb struct {
	BaseAngle float64 // direction of the tucked pose, radians
	Side      float64 // +1/-1 bend direction and lateral offset sign
	Front     bool    // attached at the front of the body

	Foot      r2.Vec // current foot position
	Target    r2.Vec // where the current step lands
	StepStart r2.Vec // foot position when the step began

	Stepping bool
	Progress float64 // 0..1 through the current step

	StepCount int
}

// LegSet holds all limbs of a creature plus the stepping sequence state.
type LegSet struct {
	Legs  [MaxLegs]Limb `inspect:"skip"`
	Count uint8         `inspect:"label"`

	Upper float64 `inspect:"label,fmt:%.1f"` // segment lengths at scale 1
	Lower float64 `inspect:"label,fmt:%.1f"`

	Sequence  [MaxLegs]uint8 `inspect:"skip"`  // cyclic step order for the current facing
	TurnIndex uint8          `inspect:"label"` // index into Sequence of the leg whose turn it is
	Facing    float64        `inspect:"dir"`   // +1/-1, direction the sequence was built for

	Steps          int `inspect:"label"` // completed steps, all legs
	EmergencySteps int `inspect:"label"` // steps started out of turn
}

// Active returns the in-use limbs.
func (ls *LegSet) Active() []Limb {
	return ls.Legs[:ls.Count]
}

// SteppingCount returns how many limbs are mid-step.
func (ls *LegSet) SteppingCount() int {
	n := 0
	for i := uint8(0); i < ls.Count; i++ {
		if ls.Legs[i].Stepping {
			n++
		}
	}
	return n
}
