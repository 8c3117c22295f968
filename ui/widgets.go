package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// bar draws a label, a track of the given width and a fill of ratio in [0, 1].
// The caller draws the value text at the returned x.
func (r *Renderer) bar(x, y int32, label string, ratio float32, fill rl.Color, width int32) int32 {
	t := &r.Theme
	bx := x + t.LabelWidth
	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(bx, y+2, width, t.BarHeight, t.BarBg)
	rl.DrawRectangle(bx, y+2, int32(float32(width)*ratio), t.BarHeight, fill)
	return bx + width + 5
}

// DrawBar draws a progress bar for a value within rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	t := &r.Theme
	vx := r.bar(x, y, label, normalize(value, rng), t.BarFill, width-t.LabelWidth-50)
	rl.DrawText(fmt.Sprintf("%.2f", value), vx, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight + 2
}

// DrawShareBar draws part/total with a color that warms as the share grows.
func (r *Renderer) DrawShareBar(x, y int32, label string, part, total float32, width int32) int32 {
	t := &r.Theme
	ratio := normalize(part, FieldRange{Max: total})
	fill := t.BarFillLow
	switch {
	case ratio >= 0.6:
		fill = t.BarFillHigh
	case ratio >= 0.3:
		fill = t.BarFillMedium
	}
	vx := r.bar(x, y, label, ratio, fill, width-t.LabelWidth-60)
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", part, total), vx, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight + 2
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		return r.DrawLabelValue(x, y, fd.Label, FieldText(fd, data))

	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, fieldValue(fd, data), fd.Range, width)

	case WidgetShareBar:
		total := float32(0)
		if fd.Total != nil {
			total = fd.Total(data)
		}
		return r.DrawShareBar(x, y, fd.Label, fieldValue(fd, data), total, width)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}

	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}

	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}

	return y + 4
}

// SectionHeight returns the height DrawSection would use, without drawing.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	var h int32
	if sd.Title != "" {
		h += r.Theme.LineHeight + 2
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		switch fd.Widget {
		case WidgetText:
			h += r.Theme.LineHeight
		case WidgetSection:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight + 2
		}
	}
	return h + 4
}

// FieldText formats a text field's value.
func FieldText(fd FieldDescriptor, data any) string {
	if fd.TextGetter != nil {
		return fd.TextGetter(data)
	}
	if fd.Getter != nil {
		format := fd.Format
		if format == "" {
			format = "%.2f"
		}
		return fmt.Sprintf(format, fd.Getter(data))
	}
	return ""
}

func fieldValue(fd FieldDescriptor, data any) float32 {
	if fd.Getter == nil {
		return 0
	}
	return fd.Getter(data)
}

func normalize(v float32, rng FieldRange) float32 {
	if rng.Max <= rng.Min {
		return 0
	}
	return max(0, min(1, (v-rng.Min)/(rng.Max-rng.Min)))
}
