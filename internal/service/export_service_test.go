package service

import (
	"bytes"
	"context"
	"testing"

	"tutfree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.SaveBookings(ctx, []models.Booking{
		{ID: "b1", VenueID: "v1", ClientName: "Aru", ClientPhone: "1", Status: models.BookingConfirmed, CreatedAt: "2024-05-01T10:00:00.000Z"},
		{ID: "b2", VenueID: "v2", ClientName: "Other", Status: models.BookingPendingConfirmation, CreatedAt: "2024-05-01T11:00:00.000Z"},
		{ID: "b3", VenueID: "v1", ClientName: "Dana", ClientPhone: "2", Status: models.BookingRejected, CreatedAt: "2024-05-01T12:00:00.000Z"},
	}))
	s := NewExportService(NewBookingService(repo, nil, testLogger()), testLogger())

	var buf bytes.Buffer
	require.NoError(t, s.ExportVenueBookings(ctx, "v1", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Venue: v1", rows[0][0])
	assert.Equal(t, exportHeaders, rows[1])
	assert.Equal(t, "b3", rows[2][0])
	assert.Equal(t, "Dana", rows[2][1])
	assert.Equal(t, "b1", rows[3][0])
	assert.Equal(t, models.BookingConfirmed, rows[3][4])
}
