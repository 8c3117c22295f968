package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
)

type gaitWorld struct {
	world  *ecs.World
	mapper *ecs.Map5[components.Position, components.Velocity, components.Body, components.Behavior, components.LegSet]
	filter *ecs.Filter2[components.Position, components.Velocity]
	sys    *GaitSystem
	events EventBuffer
}

// newGaitWorld fills a floor with n walkers. Every seventh one runs fast
// enough to need emergency steps.
func newGaitWorld(n, threshold int) *gaitWorld {
	w := ecs.NewWorld()
	cfg := config.Default()
	gw := &gaitWorld{
		world:  w,
		mapper: ecs.NewMap5[components.Position, components.Velocity, components.Body, components.Behavior, components.LegSet](w),
		filter: ecs.NewFilter2[components.Position, components.Velocity](w),
		sys:    NewGaitSystem(w, &cfg.Gait),
	}
	gw.sys.threshold = threshold

	for i := 0; i < n; i++ {
		speed := 40.0
		if i%7 == 0 {
			speed = 400
		}
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		pos := components.Position{X: 100 + float64(i)*8, Y: 650}
		vel := components.Velocity{X: dir * speed}
		body := components.Body{ID: uint32(i + 1), Surface: components.Floor, Scale: 1, BodyLength: 14, Speed: speed, Plane: 650}
		beh := components.Behavior{State: components.Crawling, Direction: dir}
		var legs components.LegSet
		InitLegs(&legs, 4-2*(i%2), 7, 8, pos.Vec(), &body, dir, &cfg.Gait)
		gw.mapper.NewEntity(&pos, &vel, &body, &beh, &legs)
	}
	return gw
}

func (gw *gaitWorld) step() []Event {
	query := gw.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		pos.X += vel.X * testDT
	}
	gw.events.Reset()
	gw.sys.Update(testDT, &gw.events)
	return gw.events.Events()
}

func (gw *gaitWorld) legs() []components.LegSet {
	var out []components.LegSet
	query := gw.sys.filter.Query()
	for query.Next() {
		_, _, _, _, legs := query.Get()
		out = append(out, *legs)
	}
	return out
}

func TestGaitParallelMatchesSequential(t *testing.T) {
	const n = 3 * parallelThreshold
	seq := newGaitWorld(n, math.MaxInt)
	par := newGaitWorld(n, 0)
	defer par.sys.Close()

	emergencies := 0
	for tick := 0; tick < 120; tick++ {
		a, b := seq.step(), par.step()
		if len(a) != len(b) {
			t.Fatalf("tick %d: %d sequential events, %d parallel", tick, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("tick %d event %d: %+v != %+v", tick, i, a[i], b[i])
			}
		}
		emergencies += len(a)
	}
	if emergencies == 0 {
		t.Error("fast walkers never took an emergency step")
	}

	a, b := seq.legs(), par.legs()
	if len(a) != n || len(b) != n {
		t.Fatalf("leg sets: %d and %d, want %d", len(a), len(b), n)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("creature %d: legs diverged", i+1)
		}
	}
}

func TestGaitPoolRestartsAfterClose(t *testing.T) {
	gw := newGaitWorld(2*parallelThreshold, 0)
	gw.step()
	gw.sys.Close()
	gw.sys.Close()

	// Pool comes back on the next update
	gw.step()
	if !gw.sys.pool.running && gw.sys.pool.numWorkers > 1 {
		t.Error("pool did not restart")
	}
	gw.sys.Close()
}
