package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayParticles   OverlayID = "particles"
	OverlayStateColors OverlayID = "state_colors"
	OverlayScareRadius OverlayID = "scare_radius"
	OverlayGroups      OverlayID = "groups"
	OverlayBounds      OverlayID = "bounds"
	OverlayFootTargets OverlayID = "foot_targets"
)

// OverlayCategory groups overlays in the controls panel.
type OverlayCategory uint8

const (
	CategoryVisual OverlayCategory = iota
	CategoryDebug
)

func (c OverlayCategory) String() string {
	if c == CategoryDebug {
		return "Debug"
	}
	return "Visual"
}

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32 // letter key that toggles it, 0 = none
	Category    OverlayCategory
	Excludes    OverlayID // switched off when this one is switched on
	DefaultOn   bool
}

// KeyLabel returns the toggle key as a display string.
func (d OverlayDescriptor) KeyLabel() string {
	if d.Key < rl.KeyA || d.Key > rl.KeyZ {
		return ""
	}
	return string(rune(d.Key))
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayParticles, Name: "Particles", Description: "Alarm, dust and scatter effects",
		Key: rl.KeyP, Category: CategoryVisual, DefaultOn: true},
	{ID: OverlayStateColors, Name: "State Colors", Description: "Tint bodies by behavior state",
		Key: rl.KeyC, Category: CategoryVisual, DefaultOn: true},
	{ID: OverlayScareRadius, Name: "Scare Radius", Description: "Show the hero's scare radius",
		Key: rl.KeyR, Category: CategoryDebug},
	{ID: OverlayGroups, Name: "Groups", Description: "Show pyramid centroids and stomp radius",
		Key: rl.KeyO, Category: CategoryDebug},
	{ID: OverlayBounds, Name: "Bounds", Description: "Show the selected creature's travel bounds",
		Key: rl.KeyB, Category: CategoryDebug, Excludes: OverlayFootTargets},
	{ID: OverlayFootTargets, Name: "Foot Targets", Description: "Mark planted feet and feet mid-step",
		Key: rl.KeyT, Category: CategoryDebug, Excludes: OverlayBounds},
}

// OverlayRegistry tracks which overlays are on.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{
		descriptors: defaultOverlays,
		enabled:     make(map[OverlayID]bool, len(defaultOverlays)),
	}
	for _, d := range r.descriptors {
		r.enabled[d.ID] = d.DefaultOn
	}
	return r
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Toggle flips an overlay and returns its new state. Unknown IDs stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	for _, d := range r.descriptors {
		if d.ID != id {
			continue
		}
		on := !r.enabled[id]
		r.enabled[id] = on
		if on && d.Excludes != "" {
			r.enabled[d.Excludes] = false
		}
		return on
	}
	return false
}

// HandleKeyPress toggles the overlay bound to key. It reports the overlay,
// its new state, and whether the key was bound at all.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, d := range r.descriptors {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}

// InCategory returns the overlays of one category in display order.
func (r *OverlayRegistry) InCategory(c OverlayCategory) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}
