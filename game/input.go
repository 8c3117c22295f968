package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// H: the hero follows the mouse instead of the scripted walk
	if rl.IsKeyPressed(rl.KeyH) {
		g.followMouse = !g.followMouse
	}

	// G: knock over the pyramid nearest the cursor
	if rl.IsKeyPressed(rl.KeyG) {
		m := rl.GetMousePosition()
		wx, wy := g.camera.ScreenToWorld(m.X, m.Y)
		if id, ok := g.nearestGroup(r2.Vec{X: float64(wx), Y: float64(wy)}); ok {
			g.DestroyGroup(id)
			slog.Info("group destroyed", "group", id)
		}
	}

	// Panels
	if rl.IsKeyPressed(rl.KeyF1) {
		g.controlsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		g.tunables.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.statsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF4) {
		g.showPerf = !g.showPerf
	}

	// Overlay keys come from the registry
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()

	m := rl.GetMousePosition()
	g.inspector.HandleInput(m.X, m.Y, g.pickCreature)
	if e, ok := g.inspector.Selected(); ok {
		g.selected = e
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.background.Resize(w, h)
	g.inspector.Resize(int32(w), int32(h))
	g.tunables.SetPosition(int32(w)-290, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Wheel zooms around the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		g.camera.ZoomAt(m.X, m.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
