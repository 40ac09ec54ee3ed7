// Package availability turns raw live statuses into the colors and badges
// shown to clients, and joins them with the venue catalog.
package availability

import (
	"math"

	"tutfree/internal/models"
)

// Classify maps a live-status mode to a color band. Unknown modes and
// missing minute values degrade to red.
func Classify(mode string, nextAvailableMinutes *float64) string {
	switch mode {
	case models.ModeFreeNow:
		return models.ColorGreen
	case models.ModeNextWindow:
		if nextAvailableMinutes != nil && !math.IsNaN(*nextAvailableMinutes) &&
			*nextAvailableMinutes <= models.SoonThresholdMinutes {
			return models.ColorYellow
		}
		return models.ColorRed
	default:
		return models.ColorRed
	}
}

// Badge maps a color to the client label.
func Badge(color string) string {
	switch color {
	case models.ColorGreen:
		return models.BadgeAvailableNow
	case models.ColorYellow:
		return models.BadgeAvailableSoon
	default:
		return models.BadgeBusyOrNotConnected
	}
}
