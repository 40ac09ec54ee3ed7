package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"tutfree/internal/domain"
	"tutfree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBusinessService_MockAuth(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := NewBusinessService(repo, nil, testLogger())

	acc, err := s.MockAuth(ctx, "Dana", "+77010000000")
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)

	stored, err := repo.BusinessAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.BusinessAccount{acc}, stored)

	_, err = s.MockAuth(ctx, "", "1")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBusinessService_SearchDirectory(t *testing.T) {
	s := NewBusinessService(newRepo(t), nil, testLogger())
	ctx := context.Background()

	all, err := s.SearchDirectory(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := s.SearchDirectory(ctx, "BARBER")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "v1", byName[0].ID)

	byAddress, err := s.SearchDirectory(ctx, "dostyk")
	require.NoError(t, err)
	require.Len(t, byAddress, 1)
	assert.Equal(t, "v2", byAddress[0].ID)
}

func TestBusinessService_ClaimPoint(t *testing.T) {
	ctx := context.Background()
	s := NewBusinessService(newRepo(t), nil, testLogger())

	claim, err := s.ClaimPoint(ctx, "acc-1", "v1")
	require.NoError(t, err)
	assert.Equal(t, models.ClaimVerified, claim.Status)

	_, err = s.ClaimPoint(ctx, "acc-1", "")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "accountId and twoGisId are required", err.Error())
}

func TestBusinessService_SetLiveStatusUpserts(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	notifier := &mockNotifier{}
	notifier.On("StatusUpdated", mock.Anything)
	s := NewBusinessService(repo, notifier, testLogger())
	s.now = fixedClock("2024-05-01T10:00:00Z")

	first, err := s.SetLiveStatus(ctx, "v1", SetLiveStatusInput{Mode: models.ModeNextWindow, ActorAccountID: "acc-1"})
	require.NoError(t, err)
	require.NotNil(t, first.NextAvailableInMinutes)
	assert.Equal(t, 30.0, *first.NextAvailableInMinutes)
	require.NotNil(t, first.ActorAccountID)
	assert.Equal(t, "acc-1", *first.ActorAccountID)

	second, err := s.SetLiveStatus(ctx, "v1", SetLiveStatusInput{Mode: models.ModeFreeNow, NextAvailableInMinutes: 15.0})
	require.NoError(t, err)
	assert.Nil(t, second.NextAvailableInMinutes)
	assert.Nil(t, second.ActorAccountID)

	stored, err := repo.LiveStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, models.ModeFreeNow, stored[0].Mode)
	assert.Equal(t, "2024-05-01T10:00:00.000Z", stored[0].UpdatedAt)

	notifier.AssertNumberOfCalls(t, "StatusUpdated", 2)
}

func TestBusinessService_SetLiveStatusInvalidMode(t *testing.T) {
	s := NewBusinessService(newRepo(t), nil, testLogger())
	_, err := s.SetLiveStatus(context.Background(), "v1", SetLiveStatusInput{Mode: "closed"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "mode must be free_now|busy|next_window", err.Error())
}

func TestNextWindowMinutes(t *testing.T) {
	ptr := func(f float64) *float64 { return &f }

	tests := []struct {
		name string
		in   interface{}
		want *float64
	}{
		{"missing", nil, ptr(30)},
		{"zero", 0.0, ptr(30)},
		{"number", 45.0, ptr(45)},
		{"negative", -5.0, ptr(-5)},
		{"numeric string", "12", ptr(12)},
		{"empty string", "", ptr(30)},
		{"blank string", "  ", ptr(0)},
		{"garbage", "soon", nil},
		{"nan string", "NaN", nil},
		{"false", false, ptr(30)},
		{"true", true, ptr(1)},
		{"object", map[string]interface{}{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextWindowMinutes(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.False(t, math.IsNaN(*got))
			assert.Equal(t, *tt.want, *got)
		})
	}
}
