// Package storage persists whole collections. Every write replaces the full
// collection atomically; there is no cross-collection transaction and no
// coordination between concurrent writers.
package storage

import (
	"context"
	"fmt"
)

const (
	CollectionVenues           = "venues"
	CollectionBookings         = "bookings"
	CollectionLiveStatuses     = "live_statuses"
	CollectionClaims           = "claims"
	CollectionBusinessAccounts = "business_accounts"
)

// Collections lists every known collection.
var Collections = []string{
	CollectionVenues,
	CollectionBookings,
	CollectionLiveStatuses,
	CollectionClaims,
	CollectionBusinessAccounts,
}

// emptyCollection is what a missing collection reads as.
var emptyCollection = []byte("[]")

// Store is a key-value store of JSON collections.
type Store interface {
	// Load returns the raw collection, or "[]" when it does not exist yet.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Replace swaps the whole collection for data.
	Replace(ctx context.Context, collection string, data []byte) error
}

func checkCollection(name string) error {
	for _, c := range Collections {
		if c == name {
			return nil
		}
	}
	return fmt.Errorf("unknown collection %q", name)
}
