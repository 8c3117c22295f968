package main

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/telemetry"
)

func TestParamVectorRoundtrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsInsideBounds(t *testing.T) {
	pv := NewParamVector()
	for i, v := range pv.ExtractFromConfig(config.Default()) {
		s := pv.Specs[i]
		if v < s.Min || v > s.Max {
			t.Errorf("%s default %v outside [%v, %v]", s.Path, v, s.Min, s.Max)
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e6
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, s := range pv.Specs {
		if got[i] != s.Max {
			t.Errorf("%s = %v, want clamped to %v", s.Path, got[i], s.Max)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config invalid: %v", err)
	}
}

func TestComputeQuality(t *testing.T) {
	smooth := telemetry.WindowStats{Population: 10, Crawling: 5, Steps: 100, EmergencyRate: 0, GroupsFormed: 4}
	rough := telemetry.WindowStats{Population: 10, Crawling: 0, Steps: 100, EmergencyRate: 0.5}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		wantMin float64
		wantMax float64
	}{
		{"empty", nil, 0, 0},
		{"warmup only", []telemetry.WindowStats{smooth}, 0, 0},
		{"smooth", []telemetry.WindowStats{smooth, smooth, smooth}, 0.9, 1},
		{"rough", []telemetry.WindowStats{rough, rough, rough}, 0, 0.1},
		{"no steps", []telemetry.WindowStats{{}, {Population: 3}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := computeQuality(tt.windows)
			if q < tt.wantMin || q > tt.wantMax {
				t.Errorf("quality = %v, want in [%v, %v]", q, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{95 * time.Second, "1m35s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEvalLogTracksBest(t *testing.T) {
	pv := NewParamVector()
	l, err := newEvalLog(filepath.Join(t.TempDir(), "log.csv"), pv, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	if l.Best() != nil {
		t.Fatal("best set before any evaluation")
	}
	a := make([]float64, pv.Dim())
	b := make([]float64, pv.Dim())
	b[0] = 1
	l.Record(a, -0.2, 0.2)
	l.Record(b, -0.7, 0.7)
	l.Record(a, -0.1, 0.1)

	if got := l.Best(); got[0] != 1 {
		t.Errorf("best = %v, want the -0.7 evaluation", got)
	}
}
