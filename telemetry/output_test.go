package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/systems"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager is a no-op
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Population: 30}); err != nil {
			t.Fatal(err)
		}
	}
	events := []EventRecord{
		NewEventRecord(30, 1.0/60.0, systems.NewGroupFormedEvent(1, r2.Vec{X: 500, Y: 640}, 5)),
		NewEventRecord(31, 1.0/60.0, systems.NewScaredEvent(4, r2.Vec{X: 80, Y: 640})),
	}
	if err := om.WriteEvents(events); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFirstPyramid, Tick: 600}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file      string
		header    string
		wantLines int
	}{
		{"telemetry.csv", "window_end,sim_time,population", 3},
		{"events.csv", "tick,sim_time,type", 3},
		{"bookmarks.csv", "type,tick,description", 2},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tt.wantLines {
				t.Errorf("%d lines, want %d:\n%s", len(lines), tt.wantLines, data)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("header = %q, want prefix %q", lines[0], tt.header)
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "group_formed") || !strings.Contains(string(data), "scared") {
		t.Errorf("events.csv missing event names:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
