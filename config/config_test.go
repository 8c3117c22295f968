package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Physics.DT <= 0 {
		t.Errorf("dt = %v, want > 0", cfg.Physics.DT)
	}
	if cfg.Group.MinSize != 5 {
		t.Errorf("group.min_size = %d, want 5", cfg.Group.MinSize)
	}
	if cfg.Group.ScanInterval != 0.5 {
		t.Errorf("group.scan_interval = %v, want 0.5", cfg.Group.ScanInterval)
	}
	if cfg.Behavior.RecoverCooldown != 0.5 {
		t.Errorf("behavior.recover_cooldown = %v, want 0.5", cfg.Behavior.RecoverCooldown)
	}

	for _, name := range []string{"beetle", "mite"} {
		if _, ok := cfg.Archetype(name); !ok {
			t.Errorf("archetype %q missing from defaults", name)
		}
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("group:\n  min_size: 3\n  max_size: 6\nbehavior:\n  scare_radius: 20\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Group.MinSize != 3 || cfg.Group.MaxSize != 6 {
		t.Errorf("group sizes = %d/%d, want 3/6", cfg.Group.MinSize, cfg.Group.MaxSize)
	}
	if cfg.Behavior.ScareRadius != 20 {
		t.Errorf("scare_radius = %v, want 20", cfg.Behavior.ScareRadius)
	}
	// Untouched fields keep their defaults
	if cfg.Group.JoinRadius != 40 {
		t.Errorf("join_radius = %v, want default 40", cfg.Group.JoinRadius)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero dt", func(c *Config) { c.Physics.DT = 0 }},
		{"zero crawl duration", func(c *Config) { c.Behavior.CrawlDuration.Min = 0 }},
		{"inverted stop duration", func(c *Config) { c.Behavior.StopDuration = Range{Min: 2, Max: 1} }},
		{"negative scare duration", func(c *Config) { c.Behavior.ScareDuration.Min = -1 }},
		{"leg count 3", func(c *Config) { c.Archetypes[0].LegCount = 3 }},
		{"zero upper leg", func(c *Config) { c.Archetypes[0].Upper = 0 }},
		{"negative speed", func(c *Config) { c.Archetypes[1].Speed = -5 }},
		{"zero scale", func(c *Config) { c.Archetypes[1].Scale = 0 }},
		{"min group size 1", func(c *Config) { c.Group.MinSize = 1 }},
		{"max below min", func(c *Config) { c.Group.MaxSize = 2 }},
		{"zero step duration", func(c *Config) { c.Gait.StepDuration = 0 }},
		{"emergency not larger", func(c *Config) { c.Gait.EmergencyMultiplier = 1 }},
		{"NaN body length", func(c *Config) { c.Archetypes[0].BodyLength = math.NaN() }},
		{"NaN scale", func(c *Config) { c.Archetypes[1].Scale = math.NaN() }},
		{"NaN join radius", func(c *Config) { c.Group.JoinRadius = math.NaN() }},
		{"NaN crawl duration max", func(c *Config) { c.Behavior.CrawlDuration.Max = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()

	cp.Archetypes[0].Speed = 999
	cp.Derived.ArchetypeIndex["ghost"] = 7
	cp.Gait.Stride = 0.9

	if cfg.Archetypes[0].Speed == 999 {
		t.Error("clone shares archetypes with the original")
	}
	if _, ok := cfg.Archetype("ghost"); ok {
		t.Error("clone shares the archetype index with the original")
	}
	if cfg.Gait.Stride == 0.9 {
		t.Error("clone shares gait settings with the original")
	}
}

func TestGaitYAMLPastesBack(t *testing.T) {
	cfg := Default()
	cfg.Gait.CrouchRate = 21
	cfg.Gait.StepThreshold = 0.42

	text, err := cfg.GaitYAML()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "gait.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Gait != cfg.Gait {
		t.Errorf("gait after paste = %+v, want %+v", loaded.Gait, cfg.Gait)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Group.MaxIdle = 3.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Group.MaxIdle != 3.5 {
		t.Errorf("max_idle = %v, want 3.5", loaded.Group.MaxIdle)
	}
}

func TestWatchReportsEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	if err := os.WriteFile(path, []byte("group:\n  min_size: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("group:\n  min_size: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "live.yaml" {
			t.Errorf("event for %q, want live.yaml", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event after editing watched file")
	}
}
