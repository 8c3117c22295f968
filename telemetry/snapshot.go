package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for replay and comparison.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`

	Tick       int32   `json:"tick"`
	SimTimeSec float64 `json:"sim_time"`

	Hero      *HeroState      `json:"hero,omitempty"`
	Creatures []CreatureState `json:"creatures"`
	Groups    []GroupState    `json:"groups"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// HeroState is the hero input of the snapshot tick.
type HeroState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreatureState holds one creature's complete state.
type CreatureState struct {
	ID        uint32 `json:"id"`
	Archetype string `json:"archetype"`
	Surface   string `json:"surface"`
	Exempt    bool   `json:"exempt,omitempty"`

	// Position and movement
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VelX float64 `json:"vel_x"`
	VelY float64 `json:"vel_y"`

	// Behavior
	State                 string  `json:"state"`
	StateTimer            float64 `json:"state_timer"`
	Direction             float64 `json:"direction"`
	DropOffset            float64 `json:"drop_offset"`
	JustRecoveredCooldown float64 `json:"just_recovered_cooldown"`
	ScatterTimer          float64 `json:"scatter_timer"`
	GroupID               uint32  `json:"group_id,omitempty"`

	Legs []LegState `json:"legs"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LegState holds one limb's foot placement.
type LegState struct {
	FootX    float64 `json:"foot_x"`
	FootY    float64 `json:"foot_y"`
	Stepping bool    `json:"stepping"`
	Progress float64 `json:"progress"`
}

// GroupState holds one pyramid.
type GroupState struct {
	ID             uint32   `json:"id"`
	Members        []uint32 `json:"members"`
	CentroidX      float64  `json:"centroid_x"`
	CentroidY      float64  `json:"centroid_y"`
	FormationTimer float64  `json:"formation_timer"`
	Age            float64  `json:"age"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	SpawnTick       int32   `json:"spawn_tick"`
	SurvivalTimeSec float64 `json:"survival_time_sec"`
	Scares          int     `json:"scares"`
	Recoveries      int     `json:"recoveries"`
	GroupsJoined    int     `json:"groups_joined"`
	GroupedSec      float64 `json:"grouped_sec"`
	Steps           int     `json:"steps"`
	EmergencySteps  int     `json:"emergency_steps"`
	Distance        float64 `json:"distance"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		SpawnTick:       ls.SpawnTick,
		SurvivalTimeSec: ls.SurvivalTimeSec,
		Scares:          ls.Scares,
		Recoveries:      ls.Recoveries,
		GroupsJoined:    ls.GroupsJoined,
		GroupedSec:      ls.GroupedSec,
		Steps:           ls.Steps,
		EmergencySteps:  ls.EmergencySteps,
		Distance:        ls.Distance,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
