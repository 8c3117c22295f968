package ui

import (
	"fmt"

	"github.com/pthm-cable/crawl/telemetry"
)

const statsPanelWidth = 260

// StatsPanel shows the last flushed telemetry window.
type StatsPanel struct {
	x, y     int32
	visible  bool
	sections []SectionDescriptor
	r        *Renderer
}

// NewStatsPanel creates a hidden stats panel at (x, y).
func NewStatsPanel(x, y int32) *StatsPanel {
	return &StatsPanel{
		x:        x,
		y:        y,
		sections: WindowStatsSections(),
		r:        NewRenderer(),
	}
}

// Toggle flips visibility and returns the new state.
func (p *StatsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible reports whether the panel is shown.
func (p *StatsPanel) IsVisible() bool {
	return p.visible
}

// SetPosition moves the panel.
func (p *StatsPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the panel for stats.
func (p *StatsPanel) Draw(stats telemetry.WindowStats) {
	if !p.visible {
		return
	}
	pad := p.r.Theme.Padding

	height := 2 * pad
	for _, sd := range p.sections {
		height += p.r.SectionHeight(sd, stats)
	}
	p.r.DrawPanel(p.x, p.y, statsPanelWidth, height)

	y := p.y + pad
	for _, sd := range p.sections {
		y = p.r.DrawSection(p.x+pad, y, sd, stats, statsPanelWidth-2*pad)
	}
}

func ws(data any) telemetry.WindowStats {
	s, _ := data.(telemetry.WindowStats)
	return s
}

func population(data any) float32 {
	return float32(ws(data).Population)
}

// WindowStatsSections describes the stats panel layout.
func WindowStatsSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "window",
			Title: "WINDOW",
			Fields: []FieldDescriptor{
				{ID: "end", Label: "End tick", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d (%.1fs)", ws(d).WindowEndTick, ws(d).SimTimeSec)
				}},
				{ID: "population", Label: "Population", Widget: WidgetText, Format: "%.0f", Getter: population},
			},
		},
		{
			ID:    "states",
			Title: "STATES",
			Fields: []FieldDescriptor{
				{ID: "crawling", Label: "Crawling", Widget: WidgetShareBar, Total: population, Getter: func(d any) float32 { return float32(ws(d).Crawling) }},
				{ID: "stopping", Label: "Stopping", Widget: WidgetShareBar, Total: population, Getter: func(d any) float32 { return float32(ws(d).Stopping) }},
				{ID: "scared", Label: "Scared", Widget: WidgetShareBar, Total: population, Getter: func(d any) float32 { return float32(ws(d).Scared) }},
				{ID: "recovering", Label: "Recovering", Widget: WidgetShareBar, Total: population, Getter: func(d any) float32 { return float32(ws(d).Recovering) }},
				{ID: "grouped", Label: "Grouped", Widget: WidgetShareBar, Total: population, Getter: func(d any) float32 { return float32(ws(d).Grouped) }},
			},
		},
		{
			ID:    "events",
			Title: "EVENTS",
			Fields: []FieldDescriptor{
				{ID: "scares", Label: "Scares", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d  recovered %d", ws(d).Scares, ws(d).Recoveries)
				}},
				{ID: "groups", Label: "Groups", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("+%d  -%d", ws(d).GroupsFormed, ws(d).GroupsDisbanded)
				}},
				{ID: "members", Label: "Joins", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d  left %d", ws(d).Joins, ws(d).Leaves)
				}},
			},
		},
		{
			ID:    "gait",
			Title: "GAIT",
			Fields: []FieldDescriptor{
				{ID: "steps", Label: "Steps", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(ws(d).Steps) }},
				{ID: "emergency_rate", Label: "Emergency", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 0.5}, Getter: func(d any) float32 { return float32(ws(d).EmergencyRate) }},
				{ID: "speed", Label: "Speed p50", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%.1f (p90 %.1f)", ws(d).SpeedP50, ws(d).SpeedP90)
				}},
				{ID: "drop", Label: "Drop mean", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return float32(ws(d).DropMean) }},
			},
		},
		{
			ID:      "pyramids",
			Title:   "PYRAMIDS",
			Visible: func(d any) bool { return ws(d).ActiveGroups > 0 },
			Fields: []FieldDescriptor{
				{ID: "active", Label: "Active", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(ws(d).ActiveGroups) }},
				{ID: "size", Label: "Size", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("mean %.1f  max %d", ws(d).MeanGroupSize, ws(d).MaxGroupSize)
				}},
			},
		},
	}
}
