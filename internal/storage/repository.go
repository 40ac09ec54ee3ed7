package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"tutfree/internal/models"
)

// Repository decodes collections into typed slices.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

func load[T any](ctx context.Context, s Store, collection string) ([]T, error) {
	data, err := s.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func save[T any](ctx context.Context, s Store, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	return s.Replace(ctx, collection, data)
}

func (r *Repository) Venues(ctx context.Context) ([]models.Venue, error) {
	return load[models.Venue](ctx, r.store, CollectionVenues)
}

func (r *Repository) ReplaceVenues(ctx context.Context, venues []models.Venue) error {
	return save(ctx, r.store, CollectionVenues, venues)
}

func (r *Repository) Bookings(ctx context.Context) ([]models.Booking, error) {
	return load[models.Booking](ctx, r.store, CollectionBookings)
}

func (r *Repository) SaveBookings(ctx context.Context, bookings []models.Booking) error {
	return save(ctx, r.store, CollectionBookings, bookings)
}

func (r *Repository) LiveStatuses(ctx context.Context) ([]models.LiveStatus, error) {
	return load[models.LiveStatus](ctx, r.store, CollectionLiveStatuses)
}

func (r *Repository) SaveLiveStatuses(ctx context.Context, statuses []models.LiveStatus) error {
	return save(ctx, r.store, CollectionLiveStatuses, statuses)
}

func (r *Repository) Claims(ctx context.Context) ([]models.Claim, error) {
	return load[models.Claim](ctx, r.store, CollectionClaims)
}

func (r *Repository) SaveClaims(ctx context.Context, claims []models.Claim) error {
	return save(ctx, r.store, CollectionClaims, claims)
}

func (r *Repository) BusinessAccounts(ctx context.Context) ([]models.BusinessAccount, error) {
	return load[models.BusinessAccount](ctx, r.store, CollectionBusinessAccounts)
}

func (r *Repository) SaveBusinessAccounts(ctx context.Context, accounts []models.BusinessAccount) error {
	return save(ctx, r.store, CollectionBusinessAccounts, accounts)
}
