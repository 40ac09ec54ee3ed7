package domain

import (
	"context"

	"tutfree/internal/models"
)

// Repository is the typed view over persisted collections.
type Repository interface {
	Venues(ctx context.Context) ([]models.Venue, error)
	ReplaceVenues(ctx context.Context, venues []models.Venue) error
	Bookings(ctx context.Context) ([]models.Booking, error)
	SaveBookings(ctx context.Context, bookings []models.Booking) error
	LiveStatuses(ctx context.Context) ([]models.LiveStatus, error)
	SaveLiveStatuses(ctx context.Context, statuses []models.LiveStatus) error
	Claims(ctx context.Context) ([]models.Claim, error)
	SaveClaims(ctx context.Context, claims []models.Claim) error
	BusinessAccounts(ctx context.Context) ([]models.BusinessAccount, error)
	SaveBusinessAccounts(ctx context.Context, accounts []models.BusinessAccount) error
}

// Notifier emits realtime events. Implementations must not block and must
// swallow transport failures.
type Notifier interface {
	StatusUpdated(status models.LiveStatus)
	BookingCreated(booking models.Booking)
	BookingDecision(booking models.Booking)
}

// EventPublisher is the in-process bus used by the notifier.
type EventPublisher interface {
	PublishJSON(eventType, room string, payload interface{}) error
}

// Directory is the external venue catalog.
type Directory interface {
	Import(ctx context.Context, query string) ([]models.Venue, error)
	SearchNearby(ctx context.Context, lat, lng, radiusKm float64, category string) ([]models.Venue, error)
}
