package storage

import "fmt"

// Versioned record keys. Bumping a version abandons old payloads: they fail
// the read (key absent) and the record falls back to defaults, which beats
// guessing at migrations for a display board.
const (
	LayoutKey = "safeboard.layout.v2"
	SlotsKey  = "safeboard.slots.v1"

	safetyKeyPrefix = "safeboard.safety.v3"
)

// SafetyKey returns the per-year key of the safety record.
func SafetyKey(year int) string {
	return fmt.Sprintf("%s.%d", safetyKeyPrefix, year)
}
