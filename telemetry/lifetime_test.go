package telemetry

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/systems"
)

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 120, "beetle")

	lt.RecordEvent(systems.NewScaredEvent(7, r2.Vec{}))
	lt.RecordEvent(systems.NewScaredEvent(7, r2.Vec{}))
	lt.RecordEvent(systems.NewRecoveredEvent(7, r2.Vec{}))
	lt.RecordEvent(systems.NewGroupJoinedEvent(7, 1, r2.Vec{}))
	lt.RecordEvent(systems.NewScaredEvent(99, r2.Vec{})) // unknown creature ignored
	lt.UpdateMotion(7, 42, 310.5, true, 0.5)
	lt.UpdateSurvivalTime(7, 180, 1.0/60.0)

	s := lt.Get(7)
	if s == nil {
		t.Fatal("stats missing after Register")
	}
	if s.Scares != 2 || s.Recoveries != 1 || s.GroupsJoined != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", s.Scares, s.Recoveries, s.GroupsJoined)
	}
	if s.Steps != 42 || s.Distance != 310.5 || s.GroupedSec != 0.5 {
		t.Errorf("motion = %d %v %v", s.Steps, s.Distance, s.GroupedSec)
	}
	if s.SurvivalTimeSec != 1.0 {
		t.Errorf("survival = %v, want 1", s.SurvivalTimeSec)
	}

	if removed := lt.Remove(7); removed != s {
		t.Error("Remove did not return the tracked stats")
	}
	if lt.Count() != 0 {
		t.Errorf("count = %d after Remove", lt.Count())
	}
}
