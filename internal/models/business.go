package models

type BusinessAccount struct {
	ID        string `json:"id"`
	OwnerName string `json:"ownerName"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
}

// Claim links a business account to a directory venue.
type Claim struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	TwoGisID  string `json:"twoGisId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}
