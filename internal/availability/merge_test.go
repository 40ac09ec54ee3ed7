package availability

import (
	"testing"
	"time"

	"tutfree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeConnectedVenue(t *testing.T) {
	venues := []models.Venue{{ID: "v1", Name: "Barber One"}}
	statuses := []models.LiveStatus{{TwoGisID: "v1", Mode: models.ModeFreeNow, UpdatedAt: "2025-01-01T10:00:00.000Z"}}

	merged := Merge(venues, statuses)
	require.Len(t, merged, 1)

	got := merged[0].TutFree
	assert.True(t, got.Connected)
	assert.Equal(t, models.ModeFreeNow, got.Mode)
	assert.Equal(t, models.ColorGreen, got.StatusColor)
	assert.Equal(t, models.BadgeAvailableNow, got.Badge)
	assert.Equal(t, "2025-01-01T10:00:00.000Z", got.UpdatedAt)
	assert.Equal(t, "Barber One", merged[0].Name)
}

func TestMergeNotConnectedVenue(t *testing.T) {
	now := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	venues := []models.Venue{{ID: "v1"}, {ID: "v2"}}
	statuses := []models.LiveStatus{{TwoGisID: "v1", Mode: models.ModeBusy}}

	merged := MergeAt(venues, statuses, now)
	require.Len(t, merged, 2)

	got := merged[1].TutFree
	assert.False(t, got.Connected)
	assert.Equal(t, models.ModeNotConnected, got.Mode)
	assert.Equal(t, models.ColorRed, got.StatusColor)
	assert.Equal(t, models.BadgeBusyOrNotConnected, got.Badge)
	assert.Nil(t, got.NextAvailableInMinutes)
	assert.Equal(t, models.Timestamp(now), got.UpdatedAt)
}

func TestMergePreservesOrderAndCount(t *testing.T) {
	venues := []models.Venue{{ID: "c"}, {ID: "a"}, {ID: "b"}, {ID: "a"}}
	statuses := []models.LiveStatus{
		{TwoGisID: "b", Mode: models.ModeNextWindow, NextAvailableInMinutes: minutes(20)},
		{TwoGisID: "orphan", Mode: models.ModeFreeNow},
	}

	merged := Merge(venues, statuses)
	require.Len(t, merged, len(venues))
	for i := range venues {
		assert.Equal(t, venues[i].ID, merged[i].ID)
	}
	assert.Equal(t, models.ColorYellow, merged[2].TutFree.StatusColor)
	assert.Equal(t, 20.0, *merged[2].TutFree.NextAvailableInMinutes)

	assert.Empty(t, Merge(nil, statuses))
}

func TestMergeDuplicateStatusLastWins(t *testing.T) {
	venues := []models.Venue{{ID: "v1"}}
	statuses := []models.LiveStatus{
		{TwoGisID: "v1", Mode: models.ModeFreeNow},
		{TwoGisID: "v1", Mode: models.ModeBusy},
	}

	merged := Merge(venues, statuses)
	assert.Equal(t, models.ModeBusy, merged[0].TutFree.Mode)
	assert.Equal(t, models.ColorRed, merged[0].TutFree.StatusColor)
}
