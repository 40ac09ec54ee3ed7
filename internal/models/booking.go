package models

type Booking struct {
	ID          string `json:"id"`
	VenueID     string `json:"venueId"`
	RequestedAt string `json:"requestedAt"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Status      string `json:"status"` // pending_confirmation, confirmed, rejected
	CreatedAt   string `json:"createdAt"`
	DecidedAt   string `json:"decidedAt,omitempty"`
}

// PushHook tells the client app which notification to play.
type PushHook struct {
	Type  string `json:"type"`
	Sound string `json:"sound"`
}

// NewBookingPushHook is returned with every created booking.
var NewBookingPushHook = PushHook{Type: "new_booking", Sound: "taxi_order_ping"}
