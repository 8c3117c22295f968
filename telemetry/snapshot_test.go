package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		WorldWidth:  1280,
		WorldHeight: 720,
		Tick:        1000,
		SimTimeSec:  16.6,
		Hero:        &HeroState{X: 400, Y: 640},
		Creatures: []CreatureState{
			{
				ID:         1,
				Archetype:  "beetle",
				Surface:    "floor",
				X:          150,
				Y:          640,
				VelX:       -40,
				State:      "crawling",
				StateTimer: 1.25,
				Direction:  -1,
				Legs: []LegState{
					{FootX: 140, FootY: 652, Stepping: true, Progress: 0.4},
					{FootX: 160, FootY: 652},
				},
				Lifetime: &LifetimeStatsJSON{
					SpawnTick: 0,
					Scares:    2,
					Steps:     88,
					Distance:  512.5,
				},
			},
		},
		Groups: []GroupState{
			{ID: 3, Members: []uint32{4, 5, 6, 7, 8}, CentroidX: 600, CentroidY: 630, Age: 2.5},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkFirstPyramid,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.Tick != snapshot.Tick || loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("header mismatch: tick %d seed %d", loaded.Tick, loaded.RNGSeed)
	}
	if len(loaded.Creatures) != 1 || len(loaded.Creatures[0].Legs) != 2 {
		t.Fatalf("creatures not restored: %+v", loaded.Creatures)
	}
	if c := loaded.Creatures[0]; c.State != "crawling" || c.Legs[0].Progress != 0.4 || c.Lifetime.Steps != 88 {
		t.Errorf("creature mismatch: %+v", c)
	}
	if len(loaded.Groups) != 1 || len(loaded.Groups[0].Members) != 5 {
		t.Errorf("groups not restored: %+v", loaded.Groups)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkFirstPyramid {
		t.Errorf("bookmark not restored: %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		snapshot *Snapshot
		want     string
	}{
		{
			name: "with bookmark",
			snapshot: &Snapshot{
				Version:  SnapshotVersion,
				Tick:     5000,
				Bookmark: &Bookmark{Type: BookmarkMassScare, Tick: 5000},
			},
			want: "snapshot_5000_mass_scare.json",
		},
		{
			name:     "without bookmark",
			snapshot: &Snapshot{Version: SnapshotVersion, Tick: 3000},
			want:     "snapshot_3000.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := SaveSnapshot(tt.snapshot, tmpDir)
			if err != nil {
				t.Fatalf("SaveSnapshot failed: %v", err)
			}
			if want := filepath.Join(tmpDir, tt.want); path != want {
				t.Errorf("Path mismatch: got %s, want %s", path, want)
			}
		})
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
