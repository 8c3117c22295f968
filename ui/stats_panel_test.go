package ui

import (
	"testing"

	"github.com/pthm-cable/crawl/telemetry"
)

func TestWindowStatsSectionsText(t *testing.T) {
	stats := telemetry.WindowStats{
		WindowEndTick: 600,
		SimTimeSec:    10,
		Population:    12,
		Scared:        3,
		Scares:        5,
		Recoveries:    2,
		ActiveGroups:  1,
		MeanGroupSize: 3,
		MaxGroupSize:  3,
	}

	want := map[string]string{
		"end":        "600 (10.0s)",
		"population": "12",
		"scares":     "5  recovered 2",
		"size":       "mean 3.0  max 3",
	}

	got := map[string]string{}
	for _, sd := range WindowStatsSections() {
		for _, fd := range sd.Fields {
			if fd.Widget == WidgetText {
				got[fd.ID] = FieldText(fd, stats)
			}
		}
	}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("%s = %q, want %q", id, got[id], w)
		}
	}
}

func TestWindowStatsShareBars(t *testing.T) {
	stats := telemetry.WindowStats{Population: 10, Scared: 4, Grouped: 6}

	for _, sd := range WindowStatsSections() {
		if sd.ID != "states" {
			continue
		}
		for _, fd := range sd.Fields {
			if fd.Widget != WidgetShareBar {
				t.Fatalf("%s: widget = %v, want share bar", fd.ID, fd.Widget)
			}
			if total := fd.Total(stats); total != 10 {
				t.Errorf("%s: total = %v, want 10", fd.ID, total)
			}
		}
	}
}

func TestPyramidSectionHiddenWithoutGroups(t *testing.T) {
	r := NewRenderer()
	for _, sd := range WindowStatsSections() {
		if sd.ID != "pyramids" {
			continue
		}
		if h := r.SectionHeight(sd, telemetry.WindowStats{}); h != 0 {
			t.Errorf("height with no groups = %d, want 0", h)
		}
		if h := r.SectionHeight(sd, telemetry.WindowStats{ActiveGroups: 2}); h == 0 {
			t.Error("section hidden with active groups")
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		v    float32
		rng  FieldRange
		want float32
	}{
		{0.25, DefaultRange(), 0.25},
		{-1, DefaultRange(), 0},
		{2, DefaultRange(), 1},
		{0.25, FieldRange{Min: 0, Max: 0.5}, 0.5},
		{1, FieldRange{Min: 1, Max: 1}, 0},
	}
	for _, tt := range tests {
		if got := normalize(tt.v, tt.rng); got != tt.want {
			t.Errorf("normalize(%v, %v) = %v, want %v", tt.v, tt.rng, got, tt.want)
		}
	}
}
