package models

// LiveStatus is the owner-reported state of a venue, one per venue id.
type LiveStatus struct {
	TwoGisID               string   `json:"twoGisId"`
	Mode                   string   `json:"mode"`
	NextAvailableInMinutes *float64 `json:"nextAvailableInMinutes"`
	ActorAccountID         *string  `json:"actorAccountId"`
	UpdatedAt              string   `json:"updatedAt"`
}
