package game

import (
	"log/slog"

	"github.com/pthm-cable/crawl/config"
	"github.com/pthm-cable/crawl/ui"
)

// ApplyTunables swaps in the behavior, gait, group and hero settings of next.
// Level geometry, archetypes, the tick length and telemetry settings stay as
// they are; changing those needs a new Game.
func (g *Game) ApplyTunables(next *config.Config) error {
	merged := *g.cfg
	merged.Behavior = next.Behavior
	merged.Gait = next.Gait
	merged.Group = next.Group
	merged.Hero = next.Hero
	if err := merged.Validate(); err != nil {
		return err
	}

	*g.cfg = merged
	g.behavior.SetConfig(g.cfg)
	g.gait.SetConfig(&g.cfg.Gait)
	g.grouping.SetConfig(g.cfg)
	return nil
}

// pollConfig applies pending edits of the watched config file.
func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path := <-g.watcher.Events:
			next, err := config.Load(path)
			if err != nil {
				slog.Warn("config reload rejected", "path", path, "error", err)
				continue
			}
			if err := g.ApplyTunables(next); err != nil {
				slog.Warn("config reload rejected", "path", path, "error", err)
				continue
			}
			slog.Info("config reloaded", "path", path)
		case err := <-g.watcher.Errors:
			slog.Warn("config watcher error", "error", err)
		default:
			return
		}
	}
}

// tunableSliders binds the slider panel to the live config.
func (g *Game) tunableSliders() []ui.Tunable {
	b := &g.cfg.Behavior
	gt := &g.cfg.Gait
	gr := &g.cfg.Group
	return []ui.Tunable{
		{Label: "Scare radius", Value: &b.ScareRadius, Min: 10, Max: 300, Format: "%.0f"},
		{Label: "Flee multiplier", Value: &b.FleeMultiplier, Min: 1, Max: 5, Format: "%.1f"},
		{Label: "Drop max", Value: &b.DropMax, Min: 0, Max: 12, Format: "%.1f"},
		{Label: "Step threshold", Value: &gt.StepThreshold, Min: 0.05, Max: 1, Format: "%.2f"},
		{Label: "Emergency mult", Value: &gt.EmergencyMultiplier, Min: 1.5, Max: 8, Format: "%.1f"},
		{Label: "Step duration", Value: &gt.StepDuration, Min: 0.02, Max: 0.4, Format: "%.2f"},
		{Label: "Arc height", Value: &gt.ArcHeight, Min: 0, Max: 1, Format: "%.2f"},
		{Label: "Join radius", Value: &gr.JoinRadius, Min: 5, Max: 120, Format: "%.0f"},
		{Label: "Stomp radius", Value: &gr.StompRadius, Min: 0, Max: 200, Format: "%.0f"},
		{Label: "Max idle", Value: &gr.MaxIdle, Min: 0, Max: 30, Format: "%.1f"},
	}
}
