package telemetry

import (
	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/systems"
)

// PopulationSample is the population state the driver samples at window end.
type PopulationSample struct {
	StateCounts [components.StateCount]int
	Speeds      []float64 // |velocity| of every creature
	DropOffsets []float64
	GroupSizes  []int
	Steps       int // completed steps since the previous sample, all creatures
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	scares          int
	recoveries      int
	groupsFormed    int
	groupsDisbanded int
	joins           int
	leaves          int
	emergencySteps  int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts one engine event.
func (c *Collector) Record(e systems.Event) {
	switch e.Type {
	case systems.EventScared:
		c.scares++
	case systems.EventRecovered:
		c.recoveries++
	case systems.EventGroupFormed:
		c.groupsFormed++
	case systems.EventGroupDisbanded:
		c.groupsDisbanded++
	case systems.EventGroupJoined:
		c.joins++
	case systems.EventGroupLeft:
		c.leaves++
	case systems.EventEmergencyStep:
		c.emergencySteps++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	var emergencyRate float64
	if sample.Steps > 0 {
		emergencyRate = float64(c.emergencySteps) / float64(sample.Steps)
	}

	speed := ComputeDistribution(sample.Speeds)
	drop := ComputeDistribution(sample.DropOffsets)

	var maxGroup, grouped int
	for _, n := range sample.GroupSizes {
		grouped += n
		maxGroup = max(maxGroup, n)
	}
	var meanGroup float64
	if len(sample.GroupSizes) > 0 {
		meanGroup = float64(grouped) / float64(len(sample.GroupSizes))
	}

	population := 0
	for _, n := range sample.StateCounts {
		population += n
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Population: population,
		Crawling:   sample.StateCounts[components.Crawling],
		Stopping:   sample.StateCounts[components.Stopping],
		Scared:     sample.StateCounts[components.Scared],
		Recovering: sample.StateCounts[components.Recovering],
		Grouped:    sample.StateCounts[components.Grouped],

		Scares:          c.scares,
		Recoveries:      c.recoveries,
		GroupsFormed:    c.groupsFormed,
		GroupsDisbanded: c.groupsDisbanded,
		Joins:           c.joins,
		Leaves:          c.leaves,

		Steps:          sample.Steps,
		EmergencySteps: c.emergencySteps,
		EmergencyRate:  emergencyRate,

		SpeedMean: speed.Mean,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
		DropMean:  drop.Mean,

		ActiveGroups:  len(sample.GroupSizes),
		MeanGroupSize: meanGroup,
		MaxGroupSize:  maxGroup,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.scares = 0
	c.recoveries = 0
	c.groupsFormed = 0
	c.groupsDisbanded = 0
	c.joins = 0
	c.leaves = 0
	c.emergencySteps = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
