package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGridLines    OverlayID = "grid_lines"
	OverlayModifiers    OverlayID = "cell_modifiers"
	OverlayCrowding     OverlayID = "cell_crowding"
	OverlayVision       OverlayID = "vision"
	OverlayHealthRings  OverlayID = "health_rings"
	OverlayObjectIDs    OverlayID = "object_ids"
	OverlayPerformance  OverlayID = "performance"
	OverlayPopulationUI OverlayID = "populations"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Keyboard key to toggle (0 = no key)
	KeyLabel    string // Key label for display (e.g., "G")
	Category    string
	Exclusive   []OverlayID // Disabled when this one is enabled
	Default     bool
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayGridLines,
		Name:        "Grid Lines",
		Description: "Outline every cell",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "world",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayModifiers,
		Name:        "Cell Modifiers",
		Description: "Tint cells by their speed and hunger multipliers",
		Key:         rl.KeyM,
		KeyLabel:    "M",
		Category:    "world",
		Exclusive:   []OverlayID{OverlayCrowding},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayCrowding,
		Name:        "Crowding",
		Description: "Shade cells by member count",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "world",
		Exclusive:   []OverlayID{OverlayModifiers},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayVision,
		Name:        "Vision",
		Description: "Draw every bot's vision radius",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "bots",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHealthRings,
		Name:        "Health Rings",
		Description: "Ring each bot with its health fraction",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "bots",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayObjectIDs,
		Name:        "Object IDs",
		Description: "Label objects with their id",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerformance,
		Name:        "Performance",
		Description: "Tick phase timings",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPopulationUI,
		Name:        "Populations",
		Description: "Alive, born and died counts per population",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "debug",
		Default:     true,
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return on
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in registration order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// Len returns the number of registered overlays.
func (r *OverlayRegistry) Len() int { return len(r.descriptors) }

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
