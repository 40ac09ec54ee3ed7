package models

// Live status modes reported by venue owners.
const (
	ModeFreeNow      = "free_now"
	ModeBusy         = "busy"
	ModeNextWindow   = "next_window"
	ModeNotConnected = "not_connected"
)

// Status colors shown on the client map.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Client-facing badges.
const (
	BadgeAvailableNow       = "available_now"
	BadgeAvailableSoon      = "available_soon"
	BadgeBusyOrNotConnected = "busy_or_not_connected"
)

const (
	BookingPendingConfirmation = "pending_confirmation"
	BookingConfirmed           = "confirmed"
	BookingRejected            = "rejected"
)

const (
	DecisionConfirm = "confirm"
	DecisionReject  = "reject"
)

const ClaimVerified = "verified"

const (
	// DefaultNextWindowMinutes is stored when an owner sets next_window without a value.
	DefaultNextWindowMinutes = 30

	// SoonThresholdMinutes is the upper bound for the "available soon" band.
	SoonThresholdMinutes = 60

	// DefaultRadiusKm is used by the map and nearby queries when no radius is given.
	DefaultRadiusKm = 5

	// Nearby directory searches accept radii in this range.
	MinNearbyRadiusKm = 0.1
	MaxNearbyRadiusKm = 20

	// Imported directory venues get neutral placeholder rating and price.
	ImportedRating     = 4.0
	ImportedPriceLevel = 2
)

// ValidModes lists modes an owner may set.
var ValidModes = []string{ModeFreeNow, ModeBusy, ModeNextWindow}

// IsValidMode reports whether mode can be set by an owner.
func IsValidMode(mode string) bool {
	for _, m := range ValidModes {
		if m == mode {
			return true
		}
	}
	return false
}
