// Package inspector shows the live component state of one selected crawler.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/telemetry"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorLabelDim    = rl.Color{R: 110, G: 110, B: 120, A: 255}
)

// Subject is everything the panel shows about one creature.
type Subject struct {
	Archetype string
	Pos       r2.Vec
	Vel       r2.Vec
	Body      *components.Body
	Behavior  *components.Behavior
	Legs      *components.LegSet
	Lifetime  *telemetry.LifetimeStats
}

// Picker returns the creature under a screen point, if any.
type Picker func(screenX, screenY float32) (ecs.Entity, bool)

// Inspector manages creature selection and panel rendering.
type Inspector struct {
	selected     ecs.Entity
	hasSelected  bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32

	// Content height of the last frame; the panel background is drawn before
	// its content so it lags one frame.
	lastHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       10,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		lastHeight:   HeaderHeight + 2*PanelPadding,
	}
}

// Resize keeps the panel anchored to the right edge.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
}

// HandleInput processes click detection for creature selection.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, pick Picker) {
	// Right click or Escape to deselect
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		if ins.overClose(mouseX, mouseY) {
			ins.Deselect()
			return
		}
		if ins.OverPanel(mouseX, mouseY) {
			return
		}
	}

	if e, ok := pick(mouseX, mouseY); ok {
		ins.Select(e)
	}
}

// OverPanel reports whether a screen point is inside the open panel.
func (ins *Inspector) OverPanel(mouseX, mouseY float32) bool {
	if !ins.hasSelected {
		return false
	}
	x, y := int32(mouseX), int32(mouseY)
	return x >= ins.panelX && x <= ins.panelX+PanelWidth &&
		y >= ins.panelY && y <= ins.panelY+ins.lastHeight
}

func (ins *Inspector) overClose(mouseX, mouseY float32) bool {
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	x, y := int32(mouseX), int32(mouseY)
	return x >= closeX && x <= closeX+20 && y >= closeY && y <= closeY+20
}

// Select makes e the inspected creature.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the panel for the selected creature.
func (ins *Inspector) Draw(s Subject) {
	if !ins.hasSelected || s.Body == nil {
		return
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.lastHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.lastHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	rl.DrawText(fmt.Sprintf("#%d  %s on %s", s.Body.ID, s.Archetype, s.Body.Surface), x, y, 14, ColorHeaderText)
	y += 22

	y += DrawLabel(x, y, "Position", fmt.Sprintf("(%.0f, %.0f)", s.Pos.X, s.Pos.Y))
	y += DrawLabel(x, y, "Velocity", fmt.Sprintf("(%.1f, %.1f)", s.Vel.X, s.Vel.Y))

	y = ins.drawComponent(x, y, "BODY", s.Body)
	y = ins.drawComponent(x, y, "BEHAVIOR", s.Behavior)

	if s.Legs != nil {
		y = ins.drawComponent(x, y, "LEGS", s.Legs)
		y += DrawBarGroup(x, y, "Step", stepProgress(s.Legs), Tag{Max: 1, Labels: legLabels(s.Legs)})
	}

	if s.Lifetime != nil {
		y = ins.drawComponent(x, y, "LIFETIME", s.Lifetime)
	} else {
		rl.DrawText("(no lifetime stats)", x, y, 12, ColorLabelDim)
		y += 16
	}

	ins.lastHeight = y + PanelPadding - ins.panelY
}

// drawComponent renders one section of tagged fields.
func (ins *Inspector) drawComponent(x, y int32, title string, component any) int32 {
	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	y += 8

	ins.drawSectionHeader(x, y, title)
	y += 20

	for _, f := range ExtractFields(component) {
		y += DrawField(x, y, f)
	}
	return y
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// DrawSelectionHighlight rings the selected creature. Call inside the camera's
// 2D mode.
func (ins *Inspector) DrawSelectionHighlight(pos r2.Vec, radius float64) {
	if !ins.hasSelected {
		return
	}
	rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(radius), rl.Yellow)
}

// stepProgress returns each leg's progress through its step, 0 when planted.
func stepProgress(legs *components.LegSet) []float64 {
	out := make([]float64, legs.Count)
	for i, limb := range legs.Active() {
		if limb.Stepping {
			out[i] = limb.Progress
		}
	}
	return out
}

// legLabels names legs by attachment, F/B for front and back, with the side
// sign as +/-.
func legLabels(legs *components.LegSet) []string {
	labels := make([]string, 0, legs.Count)
	for _, limb := range legs.Active() {
		end, side := "B", "+"
		if limb.Front {
			end = "F"
		}
		if limb.Side < 0 {
			side = "-"
		}
		labels = append(labels, end+side)
	}
	return labels
}
