package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/crawl/config"
)

// levelCellSize is the tile size of the solid level geometry.
const levelCellSize = 16

// LevelRenderer draws the floor, walls and ceiling as noisy stone tiles.
type LevelRenderer struct {
	world config.WorldConfig
	noise opensimplex.Noise
}

// NewLevelRenderer creates a level renderer. The seed only affects the stone texture.
func NewLevelRenderer(world config.WorldConfig, seed int64) *LevelRenderer {
	return &LevelRenderer{world: world, noise: opensimplex.New(seed)}
}

// solid reports whether the cell at (gx, gy) is inside level geometry.
func (r *LevelRenderer) solid(gx, gy int) bool {
	cx := (float64(gx) + 0.5) * levelCellSize
	cy := (float64(gy) + 0.5) * levelCellSize
	w := &r.world
	return cy > w.FloorY || cy < w.CeilingY || cx < w.LeftWallX || cx > w.RightWallX
}

// Draw renders the level tiles that overlap the world rectangle
// [minX, maxX] x [minY, maxY]. Call inside BeginMode2D.
func (r *LevelRenderer) Draw(minX, minY, maxX, maxY float32) {
	gridW := int(math.Ceil(r.world.Width / levelCellSize))
	gridH := int(math.Ceil(r.world.Height / levelCellSize))

	x0 := max(0, int(minX/levelCellSize))
	y0 := max(0, int(minY/levelCellSize))
	x1 := min(gridW, int(maxX/levelCellSize)+1)
	y1 := min(gridH, int(maxY/levelCellSize)+1)

	for gy := y0; gy < y1; gy++ {
		for gx := x0; gx < x1; gx++ {
			if !r.solid(gx, gy) {
				continue
			}

			baseX := float32(gx * levelCellSize)
			baseY := float32(gy * levelCellSize)

			// Depth-based color: darker further from open space
			normalizedY := float32(gy) / float32(gridH)
			depthDarken := 1.0 - normalizedY*0.3

			stone := float32(r.noise.Eval2(float64(gx)*0.35, float64(gy)*0.35))
			gray := 55 + stone*14
			base := rl.Color{
				R: uint8(gray * depthDarken),
				G: uint8((gray + 4) * depthDarken),
				B: uint8((gray + 10) * depthDarken),
				A: 255,
			}
			rl.DrawRectangle(int32(baseX), int32(baseY), levelCellSize, levelCellSize, base)

			r.drawCellEdges(gx, gy, baseX, baseY, base)
		}
	}
}

// drawCellEdges highlights tile faces that border open space.
func (r *LevelRenderer) drawCellEdges(gx, gy int, baseX, baseY float32, base rl.Color) {
	edge := float32(levelCellSize * 0.2)

	if !r.solid(gx, gy-1) {
		rl.DrawRectangle(int32(baseX), int32(baseY), levelCellSize, int32(edge), shade(base, 1.5, 220))
	}
	if !r.solid(gx, gy+1) {
		rl.DrawRectangle(int32(baseX), int32(baseY+levelCellSize-edge), levelCellSize, int32(edge), shade(base, 0.6, 200))
	}
	if !r.solid(gx-1, gy) {
		rl.DrawRectangle(int32(baseX), int32(baseY), int32(edge), levelCellSize, shade(base, 1.25, 160))
	}
	if !r.solid(gx+1, gy) {
		rl.DrawRectangle(int32(baseX+levelCellSize-edge), int32(baseY), int32(edge), levelCellSize, shade(base, 0.7, 160))
	}

	// Noise-based texture spots
	spot := r.noise.Eval2(float64(gx)*2+600, float64(gy)*2+600)
	if spot > 0.45 {
		sx := baseX + levelCellSize*(0.3+float32(spot)*0.4)
		sy := baseY + levelCellSize*(0.3+float32(r.noise.Eval2(float64(gx)*2+700, float64(gy)*2+700))*0.4)
		rl.DrawCircle(int32(sx), int32(sy), levelCellSize*0.12, shade(base, 0.8, 110))
	}
}

// shade scales a color's channels by f, clamped, with the given alpha.
func shade(c rl.Color, f float32, alpha uint8) rl.Color {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(float64(v)*float64(f), 255))
	}
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: alpha}
}
