package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"tutfree/internal/models"
	"tutfree/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) StatusUpdated(s models.LiveStatus) { m.Called(s) }
func (m *mockNotifier) BookingCreated(b models.Booking) { m.Called(b) }
func (m *mockNotifier) BookingDecision(b models.Booking) { m.Called(b) }

type fakeDirectory struct {
	mu       sync.Mutex
	venues   []models.Venue
	err      error
	queries  []string
	lastArgs []float64
}

func (d *fakeDirectory) Import(_ context.Context, query string) ([]models.Venue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, query)
	return d.venues, d.err
}

func (d *fakeDirectory) SearchNearby(_ context.Context, lat, lng, radiusKm float64, _ string) ([]models.Venue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastArgs = []float64{lat, lng, radiusKm}
	return d.venues, d.err
}

var testVenues = []models.Venue{
	{ID: "v1", Name: "Barber Abay", Category: "barbershop", Address: "Abay 10", Rating: 4.8, Lat: 43.2389, Lng: 76.8897},
	{ID: "v2", Name: "Clean Car", Category: "carwash", Address: "Dostyk 5", Rating: 4.1, Lat: 43.2500, Lng: 76.9500},
}

func radius(v float64) *float64 { return &v }

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryStore())
	require.NoError(t, repo.ReplaceVenues(context.Background(), testVenues))
	return repo
}

func fixedClock(ts string) func() time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
