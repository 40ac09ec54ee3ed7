package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"tutfree/internal/domain"
	"tutfree/internal/metrics"
	"tutfree/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CreateBookingInput is a client's booking request.
type CreateBookingInput struct {
	VenueID     string `json:"venueId"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	RequestedAt string `json:"requestedAt"`
}

type BookingService struct {
	repo     domain.Repository
	notifier domain.Notifier
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, notifier domain.Notifier, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a pending booking for an existing venue and notifies the
// venue's business room.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (models.Booking, error) {
	if strings.TrimSpace(in.VenueID) == "" || strings.TrimSpace(in.ClientName) == "" || strings.TrimSpace(in.ClientPhone) == "" {
		return models.Booking{}, domain.Validation("venueId, clientName, clientPhone are required")
	}

	venues, err := s.repo.Venues(ctx)
	if err != nil {
		return models.Booking{}, err
	}
	if !containsVenue(venues, in.VenueID) {
		return models.Booking{}, domain.NotFound("Venue")
	}

	now := models.Timestamp(s.now())
	booking := models.Booking{
		ID:          uuid.NewString(),
		VenueID:     in.VenueID,
		RequestedAt: in.RequestedAt,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		Status:      models.BookingPendingConfirmation,
		CreatedAt:   now,
	}
	if booking.RequestedAt == "" {
		booking.RequestedAt = now
	}

	bookings, err := s.repo.Bookings(ctx)
	if err != nil {
		return models.Booking{}, err
	}
	bookings = append(bookings, booking)
	if err := s.repo.SaveBookings(ctx, bookings); err != nil {
		s.logger.Error().Err(err).Str("venue_id", booking.VenueID).Msg("failed to save booking")
		return models.Booking{}, err
	}

	metrics.IncBooking(booking.Status)
	s.logger.Info().Str("booking_id", booking.ID).Str("venue_id", booking.VenueID).Msg("booking created")

	if s.notifier != nil {
		s.notifier.BookingCreated(booking)
	}
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (models.Booking, error) {
	bookings, err := s.repo.Bookings(ctx)
	if err != nil {
		return models.Booking{}, err
	}
	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, domain.NotFound("Booking")
}

// Decide confirms or rejects a booking. Repeated decisions overwrite the
// previous one.
func (s *BookingService) Decide(ctx context.Context, id, decision string) (models.Booking, error) {
	var status string
	switch decision {
	case models.DecisionConfirm:
		status = models.BookingConfirmed
	case models.DecisionReject:
		status = models.BookingRejected
	default:
		return models.Booking{}, domain.Validation("decision must be confirm|reject")
	}

	bookings, err := s.repo.Bookings(ctx)
	if err != nil {
		return models.Booking{}, err
	}

	idx := -1
	for i := range bookings {
		if bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Booking{}, domain.NotFound("Booking")
	}

	bookings[idx].Status = status
	bookings[idx].DecidedAt = models.Timestamp(s.now())
	if err := s.repo.SaveBookings(ctx, bookings); err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("failed to save decision")
		return models.Booking{}, err
	}

	booking := bookings[idx]
	metrics.IncBooking(booking.Status)
	s.logger.Info().Str("booking_id", id).Str("status", status).Msg("booking decided")

	if s.notifier != nil {
		s.notifier.BookingDecision(booking)
	}
	return booking, nil
}

// ListForVenue returns the venue's bookings, newest first.
func (s *BookingService) ListForVenue(ctx context.Context, venueID string) ([]models.Booking, error) {
	bookings, err := s.repo.Bookings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Booking, 0)
	for _, b := range bookings {
		if b.VenueID == venueID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func containsVenue(venues []models.Venue, id string) bool {
	for _, v := range venues {
		if v.ID == id {
			return true
		}
	}
	return false
}
