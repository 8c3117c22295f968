package components

// CreatureState is the behavioral state of a creature. Exactly one is active at a time.
type CreatureState uint8

const (
	Crawling CreatureState = iota
	Stopping
	Scared
	Recovering
	Grouped
)

// StateCount is the number of creature states.
const StateCount = 5

// String returns the display name of the state.
func (s CreatureState) String() string {
	switch s {
	case Crawling:
		return "crawling"
	case Stopping:
		return "stopping"
	case Scared:
		return "scared"
	case Recovering:
		return "recovering"
	case Grouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// CanTransition reports whether from -> to is an edge of the state machine.
// Self-transitions are not edges.
func CanTransition(from, to CreatureState) bool {
	switch from {
	case Crawling:
		return to == Stopping || to == Scared || to == Grouped
	case Stopping:
		return to == Crawling || to == Scared
	case Scared:
		return to == Recovering
	case Recovering:
		return to == Crawling
	case Grouped:
		return to == Crawling
	default:
		return false
	}
}

// Behavior holds the per-creature state machine data.
type Behavior struct {
	State      CreatureState `inspect:"label"`
	StateTimer float64       `inspect:"label,fmt:%.2fs"` // time spent in State

	// Per-instance randomized durations, re-rolled on each entry
	CrawlDuration float64 `inspect:"label,fmt:%.2fs"`
	StopDuration  float64 `inspect:"label,fmt:%.2fs"`
	ScareDuration float64 `inspect:"label,fmt:%.2fs"`

	Direction     float64 `inspect:"dir"` // +1/-1 along the surface axis
	MovementAngle float64 `inspect:"angle"`
	DropOffset    float64 `inspect:"bar,max:10"` // visual sag toward the surface

	DistanceTraveled      float64 `inspect:"label,fmt:%.0f"`
	JustRecoveredCooldown float64 `inspect:"label,fmt:%.2fs"`

	RecoverTimer float64 // time spent in Recovering
	EscapeDir    float64 // direction chosen when the scare ended

	ScatterTimer float64 `inspect:"label,fmt:%.2fs,nonzero"` // >0 while thrown out of a disbanded group
	ScatterDir   float64

	GroupID uint32 `inspect:"label,nonzero"` // 0 = not grouped
}

// Scattering reports whether the creature is in the post-group scatter sub-phase.
func (b *Behavior) Scattering() bool {
	return b.ScatterTimer > 0
}
