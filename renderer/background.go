package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"
)

// parallaxFactor is how fast the backdrop scrolls relative to the camera.
const parallaxFactor = 0.3

// BackgroundRenderer draws a dim gradient with slowly drifting moss patches
// behind the level, in screen space.
type BackgroundRenderer struct {
	noise            opensimplex.Noise
	screenW, screenH float32
	top, bottom      rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, seed int64) *BackgroundRenderer {
	return &BackgroundRenderer{
		noise:   opensimplex.New(seed),
		screenW: float32(screenW),
		screenH: float32(screenH),
		top:     rl.Color{R: 18, G: 20, B: 30, A: 255},
		bottom:  rl.Color{R: 34, G: 30, B: 36, A: 255},
	}
}

// Resize updates the screen dimensions.
func (b *BackgroundRenderer) Resize(screenW, screenH float32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw renders the backdrop. Call before BeginMode2D.
func (b *BackgroundRenderer) Draw(time, cameraX, cameraY float32) {
	rl.DrawRectangleGradientV(0, 0, int32(b.screenW), int32(b.screenH), b.top, b.bottom)

	const cell = 48
	offX := cameraX * parallaxFactor
	offY := cameraY * parallaxFactor
	cols := int(b.screenW/cell) + 2
	rows := int(b.screenH/cell) + 2
	startX := int(offX / cell)
	startY := int(offY / cell)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			gx := float64(startX + col)
			gy := float64(startY + row)
			n := b.noise.Eval3(gx*0.21, gy*0.21, float64(time)*0.05)
			if n < 0.25 {
				continue
			}
			sx := float32(gx)*cell - offX
			sy := float32(gy)*cell - offY
			alpha := uint8((n - 0.25) * 90)
			rl.DrawCircle(int32(sx), int32(sy), cell*0.6, rl.Color{R: 40, G: 62, B: 48, A: alpha})
		}
	}
}
