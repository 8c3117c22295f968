package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/systems"
	"github.com/pthm-cable/crawl/telemetry"
)

// recordTelemetry folds the tick's events and motion into the collectors and
// flushes the stats window when it is due.
func (g *Game) recordTelemetry(dt float64) {
	for _, e := range g.events.Events() {
		g.collector.Record(e)
		g.lifetimeTracker.RecordEvent(e)
		if g.outputManager != nil {
			g.eventRecords = append(g.eventRecords, telemetry.NewEventRecord(g.tick, dt, e))
		}
		if g.logStats {
			logEvent(g.tick, e)
		}
	}

	query := g.filter.Query()
	for query.Next() {
		_, _, body, beh, legs := query.Get()
		g.lifetimeTracker.UpdateMotion(body.ID, legs.Steps, beh.DistanceTraveled, beh.State == components.Grouped, dt)
	}

	g.flushTelemetry()
}

func logEvent(tick int32, e systems.Event) {
	attrs := []any{"tick", tick}
	if e.CreatureID != 0 {
		attrs = append(attrs, "creature", e.CreatureID)
	}
	if e.GroupID != 0 {
		attrs = append(attrs, "group", e.GroupID)
	}
	if e.Size != 0 {
		attrs = append(attrs, "size", e.Size)
	}
	slog.Info(e.Type.String(), attrs...)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if len(g.eventRecords) > 0 {
			if err := g.outputManager.WriteEvents(g.eventRecords); err != nil {
				slog.Error("failed to write events", "error", err)
			}
			g.eventRecords = g.eventRecords[:0]
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// samplePopulation gathers the per-creature values a window needs.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	var sample telemetry.PopulationSample
	stepTotal := 0

	query := g.filter.Query()
	for query.Next() {
		_, vel, body, beh, legs := query.Get()
		sample.StateCounts[beh.State]++
		sample.Speeds = append(sample.Speeds, math.Hypot(vel.X, vel.Y))
		sample.DropOffsets = append(sample.DropOffsets, beh.DropOffset)
		stepTotal += legs.Steps
		g.lifetimeTracker.UpdateSurvivalTime(body.ID, g.tick, g.cfg.Physics.DT)
	}

	for _, grp := range g.grouping.Groups() {
		sample.GroupSizes = append(sample.GroupSizes, grp.Size())
	}

	// Despawns can shrink the running total
	sample.Steps = max(0, stepTotal-g.lastStepTotal)
	g.lastStepTotal = stepTotal
	return sample
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.Snapshot()
	snapshot.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}
