package engine

import "github.com/google/uuid"

// generateID creates a random ID for timers, alarms and presets.
func generateID() string {
	return uuid.NewString()
}
