package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	sx, sy := cam.WorldToScreen(1280, 720)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToLevel(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float32
		wantX  float32
		wantY  float32
		zoom   float32
		worldW float32
		worldH float32
		viewW  float32
		viewH  float32
	}{
		{"left edge", -5000, 0, 640, 720, 1, 2560, 1440, 1280, 720},
		{"bottom edge", 0, 5000, 1280, 1080, 1, 2560, 1440, 1280, 720},
		{"zoomed in reaches further", 5000, 0, 2240, 720, 2, 2560, 1440, 1280, 720},
		{"level smaller than view stays centered", 300, 300, 400, 300, 1, 800, 600, 1280, 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.viewW, tt.viewH, tt.worldW, tt.worldH)
			cam.SetZoom(tt.zoom)
			cam.Pan(tt.dx, tt.dy)
			if !near(cam.X, tt.wantX) || !near(cam.Y, tt.wantY) {
				t.Errorf("center = (%f, %f), want (%f, %f)", cam.X, cam.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %f, want max %f", cam.Zoom, cam.MaxZoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom = %f, want min %f", cam.Zoom, cam.MinZoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	wx, wy := cam.ScreenToWorld(900, 400)
	cam.ZoomAt(900, 400, 1.5)
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 900) || !near(sy, 400) {
		t.Errorf("cursor point moved to (%f, %f)", sx, sy)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if !cam.IsVisible(1280, 720, 5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(100, 100, 5) {
		t.Error("far corner should not be visible at zoom 1")
	}
	if !cam.IsVisible(1920+4, 720, 5) {
		t.Error("circle overlapping right edge should be visible")
	}
}
