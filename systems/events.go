package systems

import "gonum.org/v1/gonum/spatial/r2"

// EventType identifies a discrete, once-per-transition engine event.
type EventType uint8

const (
	EventScared EventType = iota
	EventRecovered
	EventGroupFormed
	EventGroupJoined
	EventGroupLeft
	EventGroupDisbanded
	EventEmergencyStep
)

// String returns the event name used in logs and CSV output.
func (t EventType) String() string {
	switch t {
	case EventScared:
		return "scared"
	case EventRecovered:
		return "recovered"
	case EventGroupFormed:
		return "group_formed"
	case EventGroupJoined:
		return "group_joined"
	case EventGroupLeft:
		return "group_left"
	case EventGroupDisbanded:
		return "group_disbanded"
	case EventEmergencyStep:
		return "emergency_step"
	default:
		return "unknown"
	}
}

// Event is emitted once when a transition happens, never polled per tick.
type Event struct {
	Type       EventType
	CreatureID uint32 // 0 for group-level events
	GroupID    uint32 // 0 for creature-only events
	Pos        r2.Vec // creature position, or group centroid
	Size       int    // group size for group-level events
}

// EventBuffer collects the events of one tick. The driver drains it after
// every step.
type EventBuffer struct {
	events []Event
}

// Emit appends an event. A nil buffer drops events.
func (b *EventBuffer) Emit(e Event) {
	if b == nil {
		return
	}
	b.events = append(b.events, e)
}

// Events returns the events collected since the last Reset.
func (b *EventBuffer) Events() []Event {
	if b == nil {
		return nil
	}
	return b.events
}

// Reset clears the buffer, keeping its capacity.
func (b *EventBuffer) Reset() {
	if b == nil {
		return
	}
	b.events = b.events[:0]
}

// NewScaredEvent creates the event for a creature entering Scared.
func NewScaredEvent(creatureID uint32, pos r2.Vec) Event {
	return Event{Type: EventScared, CreatureID: creatureID, Pos: pos}
}

// NewRecoveredEvent creates the event for a creature resuming Crawling after a scare.
func NewRecoveredEvent(creatureID uint32, pos r2.Vec) Event {
	return Event{Type: EventRecovered, CreatureID: creatureID, Pos: pos}
}

// NewGroupJoinedEvent creates the event for a creature entering Grouped.
func NewGroupJoinedEvent(creatureID, groupID uint32, pos r2.Vec) Event {
	return Event{Type: EventGroupJoined, CreatureID: creatureID, GroupID: groupID, Pos: pos}
}

// NewGroupLeftEvent creates the event for a creature leaving Grouped.
func NewGroupLeftEvent(creatureID, groupID uint32, pos r2.Vec) Event {
	return Event{Type: EventGroupLeft, CreatureID: creatureID, GroupID: groupID, Pos: pos}
}

// NewGroupFormedEvent creates the event for a new group.
func NewGroupFormedEvent(groupID uint32, centroid r2.Vec, size int) Event {
	return Event{Type: EventGroupFormed, GroupID: groupID, Pos: centroid, Size: size}
}

// NewGroupDisbandedEvent creates the event for a destroyed group.
func NewGroupDisbandedEvent(groupID uint32, centroid r2.Vec, size int) Event {
	return Event{Type: EventGroupDisbanded, GroupID: groupID, Pos: centroid, Size: size}
}
