package telemetry

import "github.com/pthm-cable/crawl/systems"

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	SpawnTick       int32
	SurvivalTimeSec float64
	Archetype       string

	// Behavior
	Scares     int
	Recoveries int

	// Grouping
	GroupsJoined int
	GroupedSec   float64

	// Gait
	Steps          int
	EmergencySteps int
	Distance       float64
}

// LifetimeTracker manages per-creature lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new creature.
func (lt *LifetimeTracker) Register(creatureID uint32, spawnTick int32, archetype string) {
	lt.stats[creatureID] = &LifetimeStats{
		SpawnTick: spawnTick,
		Archetype: archetype,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(creatureID uint32) *LifetimeStats {
	return lt.stats[creatureID]
}

// Remove removes a creature's stats and returns them (for snapshot/logging).
func (lt *LifetimeTracker) Remove(creatureID uint32) *LifetimeStats {
	stats := lt.stats[creatureID]
	delete(lt.stats, creatureID)
	return stats
}

// RecordEvent attributes an engine event to its creature.
func (lt *LifetimeTracker) RecordEvent(e systems.Event) {
	s := lt.stats[e.CreatureID]
	if s == nil {
		return
	}
	switch e.Type {
	case systems.EventScared:
		s.Scares++
	case systems.EventRecovered:
		s.Recoveries++
	case systems.EventGroupJoined:
		s.GroupsJoined++
	case systems.EventEmergencyStep:
		s.EmergencySteps++
	}
}

// UpdateMotion copies running totals kept on the creature's components.
func (lt *LifetimeTracker) UpdateMotion(creatureID uint32, steps int, distance float64, grouped bool, dt float64) {
	if s := lt.stats[creatureID]; s != nil {
		s.Steps = steps
		s.Distance = distance
		if grouped {
			s.GroupedSec += dt
		}
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(creatureID uint32, currentTick int32, dt float64) {
	if s := lt.stats[creatureID]; s != nil {
		s.SurvivalTimeSec = float64(currentTick-s.SpawnTick) * dt
	}
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
