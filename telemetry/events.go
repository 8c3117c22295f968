// Package telemetry provides population stats, bookmarking, and snapshots for crawler runs.
package telemetry

import "github.com/pthm-cable/crawl/systems"

// EventRecord is one engine event as written to events.csv.
type EventRecord struct {
	Tick       int32   `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`
	Type       string  `csv:"type"`
	CreatureID uint32  `csv:"creature_id"`
	GroupID    uint32  `csv:"group_id"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Size       int     `csv:"size"`
}

// NewEventRecord stamps an engine event with the tick it happened on.
func NewEventRecord(tick int32, dt float64, e systems.Event) EventRecord {
	return EventRecord{
		Tick:       tick,
		SimTimeSec: float64(tick) * dt,
		Type:       e.Type.String(),
		CreatureID: e.CreatureID,
		GroupID:    e.GroupID,
		X:          e.Pos.X,
		Y:          e.Pos.Y,
		Size:       e.Size,
	}
}
