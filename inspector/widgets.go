package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crawl/components"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 140, G: 170, B: 110, A: 255}
	ColorBarLow      = rl.Color{R: 200, G: 110, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	fieldFont   = 14
	valueColumn = 110 // x offset of values from the field name
	barWidth    = 120
)

// DrawField draws one field and returns the height it used.
func DrawField(x, y int32, f Field) int32 {
	switch f.Tag.Widget {
	case WidgetBar:
		if values, ok := FloatSlice(f.Value); ok {
			return DrawBarGroup(x, y, f.Name, values, f.Tag)
		}
		if v, ok := FloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Tag.Max)
		}
	case WidgetAngle:
		if v, ok := FloatValue(f.Value); ok {
			return DrawAngle(x, y, f.Name, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	case WidgetDir:
		if v, ok := FloatValue(f.Value); ok {
			return DrawLabel(x, y, f.Name, dirArrow(v))
		}
	case WidgetSpan:
		if b, ok := f.Value.(components.Bounds); ok {
			return DrawSpan(x, y, f.Name, b)
		}
	}
	return DrawLabel(x, y, f.Name, f.Text())
}

// DrawLabel draws a name and a text value.
func DrawLabel(x, y int32, name, value string) int32 {
	rl.DrawText(name, x, y, fieldFont, ColorTextDim)
	rl.DrawText(value, x+valueColumn, y, fieldFont, ColorText)
	return 18
}

// DrawBar draws value as a horizontal bar filling at maxVal. The fill warms
// toward ColorBarLow as it fills.
func DrawBar(x, y int32, name string, value, maxVal float64) int32 {
	ratio := clampRatio(value / maxVal)

	rl.DrawText(name, x, y, fieldFont, ColorTextDim)
	bx := x + valueColumn
	rl.DrawRectangle(bx, y, barWidth, 14, ColorBarBg)
	rl.DrawRectangle(bx, y, int32(barWidth*ratio), 14, lerpColor(ColorBarFill, ColorBarLow, float32(ratio)))
	rl.DrawText(fmt.Sprintf("%.2f", value), bx+barWidth+5, y, fieldFont, ColorTextDim)
	return 18
}

// DrawBarGroup draws one short vertical bar per value, filled from the bottom,
// with optional labels underneath.
func DrawBarGroup(x, y int32, name string, values []float64, tag Tag) int32 {
	const w, h, gap = 20, 30, 4

	rl.DrawText(name, x, y, fieldFont, ColorTextDim)
	bx := x + valueColumn
	for i, v := range values {
		ratio := clampRatio(v / tag.Max)
		cx := bx + int32(i)*(w+gap)
		fill := int32(h * ratio)
		rl.DrawRectangle(cx, y, w, h, ColorBarBg)
		rl.DrawRectangle(cx, y+h-fill, w, fill, lerpColor(ColorBarLow, ColorBarFill, float32(ratio)))

		if i < len(tag.Labels) {
			tw := rl.MeasureText(tag.Labels[i], 10)
			rl.DrawText(tag.Labels[i], cx+w/2-tw/2, y+h+2, 10, ColorTextDim)
		}
	}
	if len(tag.Labels) > 0 {
		return h + 16
	}
	return h + 4
}

// DrawAngle draws a dial with a needle at radians.
func DrawAngle(x, y int32, name string, radians float64) int32 {
	const size = 36
	cx := x + valueColumn + size/2
	cy := y + size/2

	rl.DrawText(name, x, cy-7, fieldFont, ColorTextDim)
	rl.DrawCircle(cx, cy, size/2, ColorAngleBg)
	rl.DrawCircleLines(cx, cy, size/2, ColorTextDim)

	r := float64(size/2 - 4)
	tip := rl.Vector2{X: float32(float64(cx) + r*math.Cos(radians)), Y: float32(float64(cy) + r*math.Sin(radians))}
	rl.DrawLineEx(rl.Vector2{X: float32(cx), Y: float32(cy)}, tip, 2, ColorAngleNeedle)
	rl.DrawText(fmt.Sprintf("%.0f deg", radians*180/math.Pi), cx+size/2+6, cy-7, fieldFont, ColorTextDim)
	return size + 4
}

// DrawBool draws an on/off swatch.
func DrawBool(x, y int32, name string, value bool) int32 {
	color, text := ColorBoolOff, "no"
	if value {
		color, text = ColorBoolOn, "yes"
	}
	rl.DrawText(name, x, y, fieldFont, ColorTextDim)
	rl.DrawRectangle(x+valueColumn, y, 14, 14, color)
	rl.DrawText(text, x+valueColumn+20, y, fieldFont, color)
	return 18
}

// DrawSpan draws travel bounds as a line with end ticks and the numbers.
func DrawSpan(x, y int32, name string, b components.Bounds) int32 {
	rl.DrawText(name, x, y, fieldFont, ColorTextDim)
	lx := x + valueColumn
	rl.DrawLine(lx, y+7, lx+barWidth, y+7, ColorTextDim)
	rl.DrawLine(lx, y+2, lx, y+12, ColorText)
	rl.DrawLine(lx+barWidth, y+2, lx+barWidth, y+12, ColorText)
	rl.DrawText(FormatValue(b, ""), lx+barWidth+5, y, fieldFont, ColorTextDim)
	return 18
}

func dirArrow(d float64) string {
	switch {
	case d > 0:
		return "-> (+1)"
	case d < 0:
		return "<- (-1)"
	}
	return "none"
}

func clampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(1, r))
}

// lerpColor interpolates between two opaque colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(p, q uint8) uint8 {
		return uint8(float32(p) + (float32(q)-float32(p))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
