package service

import (
	"context"
	"errors"
	"testing"

	"tutfree/internal/domain"
	"tutfree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{}
	notifier.On("BookingCreated", mock.AnythingOfType("models.Booking")).Once()

	s := NewBookingService(newRepo(t), notifier, testLogger())
	s.now = fixedClock("2024-05-01T10:00:00Z")

	in := CreateBookingInput{VenueID: "v1", ClientName: "Aru", ClientPhone: "+77010000000", RequestedAt: "2024-05-02T12:00:00.000Z"}
	created, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.BookingPendingConfirmation, created.Status)
	assert.Equal(t, "2024-05-01T10:00:00.000Z", created.CreatedAt)
	assert.Equal(t, in.RequestedAt, created.RequestedAt)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	notifier.AssertExpectations(t)
	sent := notifier.Calls[0].Arguments.Get(0).(models.Booking)
	assert.Equal(t, created.ID, sent.ID)
}

func TestBookingService_CreateDefaultsRequestedAt(t *testing.T) {
	s := NewBookingService(newRepo(t), nil, testLogger())
	s.now = fixedClock("2024-05-01T10:00:00Z")

	b, err := s.Create(context.Background(), CreateBookingInput{VenueID: "v2", ClientName: "Aru", ClientPhone: "1"})
	require.NoError(t, err)
	assert.Equal(t, b.CreatedAt, b.RequestedAt)
}

func TestBookingService_CreateErrors(t *testing.T) {
	ctx := context.Background()
	s := NewBookingService(newRepo(t), nil, testLogger())

	_, err := s.Create(ctx, CreateBookingInput{VenueID: "v1", ClientName: "Aru"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "venueId, clientName, clientPhone are required", err.Error())

	_, err = s.Create(ctx, CreateBookingInput{VenueID: "missing", ClientName: "Aru", ClientPhone: "1"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Venue not found", err.Error())

	_, err = s.Get(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Booking not found", err.Error())
}

func TestBookingService_DecideTwice(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{}
	notifier.On("BookingCreated", mock.Anything)
	notifier.On("BookingDecision", mock.Anything)

	s := NewBookingService(newRepo(t), notifier, testLogger())
	b, err := s.Create(ctx, CreateBookingInput{VenueID: "v1", ClientName: "Aru", ClientPhone: "1"})
	require.NoError(t, err)

	confirmed, err := s.Decide(ctx, b.ID, models.DecisionConfirm)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
	assert.NotEmpty(t, confirmed.DecidedAt)

	// no idempotency guard, the second decision wins
	rejected, err := s.Decide(ctx, b.ID, models.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, rejected.Status)

	stored, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, stored.Status)
	notifier.AssertNumberOfCalls(t, "BookingDecision", 2)
}

func TestBookingService_DecideErrors(t *testing.T) {
	ctx := context.Background()
	s := NewBookingService(newRepo(t), nil, testLogger())

	_, err := s.Decide(ctx, "any", "maybe")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = s.Decide(ctx, "missing", models.DecisionConfirm)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBookingService_ListForVenue(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.SaveBookings(ctx, []models.Booking{
		{ID: "a", VenueID: "v1", CreatedAt: "2024-05-01T10:00:00.000Z"},
		{ID: "b", VenueID: "v2", CreatedAt: "2024-05-01T11:00:00.000Z"},
		{ID: "c", VenueID: "v1", CreatedAt: "2024-05-01T12:00:00.000Z"},
	}))
	s := NewBookingService(repo, nil, testLogger())

	list, err := s.ListForVenue(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)

	empty, err := s.ListForVenue(ctx, "v9")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
