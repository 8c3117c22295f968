package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseBehavior)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseGait)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.P95TickDuration < stats.MinTickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p95 %v outside [%v, %v]", stats.P95TickDuration, stats.MinTickDuration, stats.MaxTickDuration)
	}
	for _, phase := range []Phase{PhaseBehavior, PhaseGait} {
		if _, ok := stats.PhaseAvg[phase.String()]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseGrouping.String()]; ok {
		t.Error("untimed grouping phase reported")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseGrouping)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseGait)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fast := stats.PhasePct[PhasePhysics.String()]
	slow := stats.PhasePct[PhaseGait.String()]
	if slow <= fast {
		t.Errorf("expected gait (%v%%) > physics (%v%%)", slow, fast)
	}

	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.GaitPct != slow {
		t.Errorf("csv row = %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 80 {
		t.Errorf("expected FPS in (0, 80] with 16ms frame time, got %v", stats.FPS)
	}
}
