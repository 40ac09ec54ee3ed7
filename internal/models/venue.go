package models

// Venue is a static directory entry.
type Venue struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Rating       float64  `json:"rating"`
	PriceLevel   int      `json:"priceLevel"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	WorkingHours string   `json:"workingHours"`
	Slots        []string `json:"slots"`
}

// AvailabilityBlock is the computed status attached to a venue for clients.
type AvailabilityBlock struct {
	Connected              bool     `json:"connected"`
	Mode                   string   `json:"mode"`
	StatusColor            string   `json:"statusColor"`
	Badge                  string   `json:"badge"`
	NextAvailableInMinutes *float64 `json:"nextAvailableInMinutes,omitempty"`
	UpdatedAt              string   `json:"updatedAt"`
}

// MergedVenueView is a venue joined with its live status. Never persisted.
type MergedVenueView struct {
	Venue
	TutFree    AvailabilityBlock `json:"tutfree"`
	DistanceKm *float64          `json:"distanceKm,omitempty"`
}
