package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
)

const testDT = 1.0 / 60.0

type gaitRig struct {
	cfg  *config.GaitConfig
	pos  r2.Vec
	body components.Body
	beh  components.Behavior
	legs components.LegSet
}

func newGaitRig(legCount int, upper, lower, speed float64) *gaitRig {
	cfg := config.Default()
	r := &gaitRig{
		cfg: &cfg.Gait,
		pos: r2.Vec{X: 200, Y: 600},
		body: components.Body{
			ID:         1,
			Surface:    components.Floor,
			Scale:      1,
			BodyLength: 14,
			Speed:      speed,
		},
		beh: components.Behavior{State: components.Crawling, Direction: 1},
	}
	InitLegs(&r.legs, legCount, upper, lower, r.pos, &r.body, 1, r.cfg)
	return r
}

// walk moves the rig along +X (or -X) for the given ticks, calling check after each.
func (r *gaitRig) walk(ticks int, dir float64, check func(tick, emergencies int)) {
	vel := r2.Vec{X: dir * r.body.Speed}
	for i := 0; i < ticks; i++ {
		r.pos = r2.Add(r.pos, r2.Scale(testDT, vel))
		n := StepGait(r.cfg, r.pos, vel, &r.body, &r.beh, &r.legs, testDT)
		if check != nil {
			check(i, n)
		}
	}
}

func TestGaitOneLegAtATime(t *testing.T) {
	tests := []struct {
		name         string
		legs         int
		upper, lower float64
		speed        float64
	}{
		{"beetle", 4, 7, 8, 40},
		{"mite", 2, 5, 6, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newGaitRig(tt.legs, tt.upper, tt.lower, tt.speed)
			r.walk(20*60, 1, func(tick, emergencies int) {
				if emergencies > 0 {
					t.Fatalf("tick %d: unexpected emergency step at steady crawl", tick)
				}
				if n := r.legs.SteppingCount(); n > 1 {
					t.Fatalf("tick %d: %d limbs stepping at once", tick, n)
				}
			})

			minSteps, maxSteps := math.MaxInt, 0
			for _, limb := range r.legs.Active() {
				minSteps = min(minSteps, limb.StepCount)
				maxSteps = max(maxSteps, limb.StepCount)
			}
			if minSteps == 0 {
				t.Fatal("a limb never stepped")
			}
			if maxSteps-minSteps > 1 {
				t.Errorf("step counts range %d..%d, want equal within 1", minSteps, maxSteps)
			}
		})
	}
}

func TestGaitSequenceMirrorsOnTurn(t *testing.T) {
	r := newGaitRig(4, 7, 8, 40)
	want := [components.MaxLegs]uint8{1, 2, 0, 3}
	if r.legs.Sequence != want {
		t.Fatalf("forward sequence = %v, want %v", r.legs.Sequence, want)
	}

	r.walk(7, 1, nil)
	if r.legs.TurnIndex == 0 {
		t.Fatal("expected the turn to advance while walking")
	}

	r.walk(1, -1, nil)
	want = [components.MaxLegs]uint8{3, 0, 2, 1}
	if r.legs.Sequence != want {
		t.Errorf("reversed sequence = %v, want %v", r.legs.Sequence, want)
	}
	if r.legs.Facing != -1 {
		t.Errorf("facing = %v, want -1", r.legs.Facing)
	}
}

func TestGaitEmergencyStep(t *testing.T) {
	r := newGaitRig(4, 7, 8, 40)
	r.walk(2, 1, nil)
	if r.legs.SteppingCount() != 1 {
		t.Fatalf("setup: %d limbs stepping, want 1", r.legs.SteppingCount())
	}

	// Drag a resting limb far behind the body
	var stray uint8 = 255
	for i := uint8(0); i < r.legs.Count; i++ {
		if !r.legs.Legs[i].Stepping {
			stray = i
			break
		}
	}
	r.legs.Legs[stray].Foot = r2.Add(r.pos, r2.Vec{X: -60, Y: 0})

	n := StepGait(r.cfg, r.pos, r2.Vec{X: 40}, &r.body, &r.beh, &r.legs, testDT)
	if n != 1 {
		t.Fatalf("emergencies = %d, want 1", n)
	}
	if !r.legs.Legs[stray].Stepping {
		t.Error("stray limb did not start a step")
	}
	if r.legs.SteppingCount() != 2 {
		t.Errorf("stepping = %d, want 2 (emergency may overlap a normal step)", r.legs.SteppingCount())
	}
	if r.legs.EmergencySteps != 1 {
		t.Errorf("EmergencySteps = %d, want 1", r.legs.EmergencySteps)
	}
}

func TestGaitEmergencyOverridesTurnOrder(t *testing.T) {
	tests := []struct {
		name     string
		pick     func(legs *components.LegSet) uint8
		wantTurn uint8
	}{
		{"limb whose turn it is consumes the turn", func(legs *components.LegSet) uint8 {
			return legs.Sequence[legs.TurnIndex]
		}, 1},
		{"limb out of turn leaves the turn alone", func(legs *components.LegSet) uint8 {
			return legs.Sequence[2]
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newGaitRig(4, 7, 8, 40)
			if r.legs.TurnIndex != 0 || r.legs.SteppingCount() != 0 {
				t.Fatalf("setup: turn %d, %d stepping", r.legs.TurnIndex, r.legs.SteppingCount())
			}

			leg := tt.pick(&r.legs)
			r.legs.Legs[leg].Foot = r2.Add(r.pos, r2.Vec{X: -60})

			// Standing still: no other limb wants a step
			n := StepGait(r.cfg, r.pos, r2.Vec{}, &r.body, &r.beh, &r.legs, testDT)
			if n != 1 {
				t.Fatalf("emergencies = %d, want 1", n)
			}
			if !r.legs.Legs[leg].Stepping {
				t.Error("stretched limb did not start a step")
			}
			if got := r.legs.SteppingCount(); got != 1 {
				t.Errorf("stepping = %d, want 1 (no normal step alongside)", got)
			}
			if r.legs.TurnIndex != tt.wantTurn {
				t.Errorf("TurnIndex = %d, want %d", r.legs.TurnIndex, tt.wantTurn)
			}
		})
	}
}

func TestGaitStepArcAndLanding(t *testing.T) {
	r := newGaitRig(4, 7, 8, 40)
	r.walk(1, 1, nil)

	var leg *components.Limb
	for i := range r.legs.Active() {
		if r.legs.Legs[i].Stepping {
			leg = &r.legs.Legs[i]
		}
	}
	if leg == nil {
		t.Fatal("no limb stepping after first tick")
	}

	start, target := leg.StepStart, leg.Target
	sawLift := false
	for i := 0; i < 10 && leg.Stepping; i++ {
		r.walk(1, 1, nil)
		if leg.Target != target {
			t.Fatal("target moved during a step")
		}
		if leg.Stepping {
			base := lerp(start, target, leg.Progress)
			// Floor normal points up (-Y)
			if leg.Foot.Y < base.Y-1e-9 {
				sawLift = true
			}
		}
	}
	if leg.Stepping {
		t.Fatal("step did not finish")
	}
	if !sawLift {
		t.Error("foot never lifted off the straight path")
	}
	if leg.Foot != target {
		t.Errorf("foot landed at %v, want exactly %v", leg.Foot, target)
	}
}

func TestGaitCrouchWhileScared(t *testing.T) {
	r := newGaitRig(4, 7, 8, 40)
	r.walk(3, 1, nil)
	r.beh.State = components.Scared
	r.beh.DropOffset = 4

	for i := 0; i < 120; i++ {
		StepGait(r.cfg, r.pos, r2.Vec{}, &r.body, &r.beh, &r.legs, testDT)
		if r.legs.SteppingCount() != 0 {
			t.Fatal("limb stepping while scared")
		}
	}

	reach := LegReach(&r.legs, &r.body)
	for i, limb := range r.legs.Active() {
		attach := AttachPoint(r.pos, &r.body, r.beh.DropOffset, &limb)
		want := r2.Add(attach, r2.Scale(r.cfg.CrouchFraction*reach, r2.Vec{X: math.Cos(limb.BaseAngle), Y: math.Sin(limb.BaseAngle)}))
		if d := r2.Norm(r2.Sub(limb.Foot, want)); d > 0.01 {
			t.Errorf("limb %d is %.3f from its tucked pose", i, d)
		}
	}
}

func TestGaitGroupedStandsStill(t *testing.T) {
	r := newGaitRig(4, 7, 8, 40)
	r.beh.State = components.Grouped

	// Velocity is ignored for grouped creatures; feet settle under the body
	for i := 0; i < 120; i++ {
		StepGait(r.cfg, r.pos, r2.Vec{X: 40}, &r.body, &r.beh, &r.legs, testDT)
	}
	for i := range r.legs.Active() {
		limb := &r.legs.Legs[i]
		ideal := IdealFoot(r.cfg, r.pos, &r.body, &r.legs, limb, false)
		if d := r2.Norm(r2.Sub(limb.Foot, ideal)); d > r.cfg.StepThreshold*LegReach(&r.legs, &r.body) {
			t.Errorf("limb %d is %.2f from its standing pose", i, d)
		}
	}
}
