package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the overlay toggles grouped by category and returns the y
// just below the panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	categories := []OverlayCategory{CategoryVisual, CategoryDebug}

	rows := 0
	for _, cat := range categories {
		rows += len(overlays.InCategory(cat)) + 1
	}
	height := int32(rows+1)*lineHeight + padding*2 + int32(len(categories))*4
	r.DrawPanel(c.x, c.y, c.width, height)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, cat := range categories {
		rl.DrawText(cat.String(), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, desc := range overlays.InCategory(cat) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}
	return c.y + height
}

// drawToggle draws one overlay line: status swatch, name and key.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	theme := &c.renderer.Theme

	swatch, name := rl.Color{R: 80, G: 80, B: 80, A: 255}, theme.LabelColor
	if enabled {
		swatch, name = rl.Color{R: 100, G: 200, B: 100, A: 255}, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, swatch)
	rl.DrawText(desc.Name, x+14, y, theme.FontSize, name)

	if key := desc.KeyLabel(); key != "" {
		text := "[" + key + "]"
		rl.DrawText(text, x+width-rl.MeasureText(text, theme.FontSize), y, theme.FontSize, theme.LabelColor)
	}
}

// Tunable is one live-editable float bound to a config field.
type Tunable struct {
	Label    string
	Value    *float64
	Min, Max float64
	Format   string
}

// TunablesPanel renders raygui sliders for live config edits.
type TunablesPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	tunables []Tunable
}

// NewTunablesPanel creates a slider panel for the given tunables.
func NewTunablesPanel(x, y, width int32, tunables []Tunable) *TunablesPanel {
	return &TunablesPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		tunables: tunables,
	}
}

// Toggle switches panel visibility.
func (t *TunablesPanel) Toggle() bool {
	t.visible = !t.visible
	return t.visible
}

// IsVisible returns whether the panel is shown.
func (t *TunablesPanel) IsVisible() bool {
	return t.visible
}

// SetPosition updates the panel position.
func (t *TunablesPanel) SetPosition(x, y int32) {
	t.x = x
	t.y = y
}

// Draw renders the sliders and writes changes through. Returns true if any
// value changed this frame.
func (t *TunablesPanel) Draw() bool {
	if !t.visible {
		return false
	}

	r := t.renderer
	padding := r.Theme.Padding
	rowHeight := int32(34)
	height := int32(len(t.tunables))*rowHeight + padding*2 + 20
	r.DrawPanel(t.x, t.y, t.width, height)

	y := t.y + padding
	rl.DrawText("Tunables", t.x+padding, y, 16, rl.White)
	y += 22

	changed := false
	sliderW := float32(t.width - padding*2 - 50)
	for _, tn := range t.tunables {
		rl.DrawText(tn.Label, t.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		cur := float32(*tn.Value)
		next := gui.SliderBar(
			rl.Rectangle{X: float32(t.x + padding), Y: float32(y + 14), Width: sliderW, Height: 14},
			"", "",
			cur, float32(tn.Min), float32(tn.Max),
		)
		rl.DrawText(fmt.Sprintf(tn.Format, *tn.Value), t.x+padding+int32(sliderW)+6, y+14, r.Theme.FontSize, r.Theme.ValueColor)
		if next != cur {
			*tn.Value = float64(next)
			changed = true
		}
		y += rowHeight
	}
	return changed
}
