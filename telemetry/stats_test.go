package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/systems"
)

func TestComputeDistribution(t *testing.T) {
	// Unsorted input; the caller's slice must not be reordered
	values := []float64{5, 1, 9, 3, 7, 2, 8, 4, 10, 6}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	if math.Abs(d.Std-math.Sqrt(8.25)) > 1e-9 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(8.25))
	}
	if d.P50 != 5 {
		t.Errorf("p50 = %v, want 5", d.P50)
	}
	if d.P10 > d.P50 || d.P50 > d.P90 {
		t.Errorf("percentiles out of order: %v %v %v", d.P10, d.P50, d.P90)
	}
	if values[0] != 5 {
		t.Error("input slice was modified")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty sample = %+v, want zeros", d)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	if c.WindowDurationTicks() != 60 {
		t.Fatalf("window ticks = %d, want 60", c.WindowDurationTicks())
	}

	for i := 0; i < 3; i++ {
		c.Record(systems.NewScaredEvent(uint32(i+1), r2.Vec{}))
	}
	c.Record(systems.NewGroupFormedEvent(1, r2.Vec{}, 5))
	c.Record(systems.Event{Type: systems.EventEmergencyStep})

	if c.ShouldFlush(59) {
		t.Error("flush due before the window ended")
	}
	if !c.ShouldFlush(60) {
		t.Error("flush not due at window end")
	}

	var sample PopulationSample
	sample.StateCounts[components.Crawling] = 4
	sample.StateCounts[components.Scared] = 3
	sample.StateCounts[components.Grouped] = 5
	sample.GroupSizes = []int{5}
	sample.Steps = 40
	sample.Speeds = []float64{0, 40, 40, 40}

	stats := c.Flush(60, sample)
	if stats.Population != 12 || stats.Grouped != 5 || stats.Scared != 3 {
		t.Errorf("population = %d grouped = %d scared = %d", stats.Population, stats.Grouped, stats.Scared)
	}
	if stats.Scares != 3 || stats.GroupsFormed != 1 || stats.EmergencySteps != 1 {
		t.Errorf("events: scares %d formed %d emergency %d", stats.Scares, stats.GroupsFormed, stats.EmergencySteps)
	}
	if math.Abs(stats.EmergencyRate-1.0/40) > 1e-12 {
		t.Errorf("emergency rate = %v, want 0.025", stats.EmergencyRate)
	}
	if stats.MaxGroupSize != 5 || stats.ActiveGroups != 1 {
		t.Errorf("groups: max %d active %d", stats.MaxGroupSize, stats.ActiveGroups)
	}
	if stats.SpeedMean != 30 {
		t.Errorf("speed mean = %v, want 30", stats.SpeedMean)
	}

	// Counters reset for the next window
	next := c.Flush(120, PopulationSample{})
	if next.Scares != 0 || next.GroupsFormed != 0 || next.WindowStartTick != 60 {
		t.Errorf("second window not reset: %+v", next)
	}
}
