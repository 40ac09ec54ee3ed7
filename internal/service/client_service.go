package service

import (
	"context"

	"tutfree/internal/availability"
	"tutfree/internal/domain"
	"tutfree/internal/models"

	"github.com/rs/zerolog"
)

// ClientService serves the client-facing venue views.
type ClientService struct {
	repo      domain.Repository
	directory domain.Directory
	logger    *zerolog.Logger
}

func NewClientService(repo domain.Repository, directory domain.Directory, logger *zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, directory: directory, logger: logger}
}

func (s *ClientService) mergeWithStatuses(ctx context.Context, venues []models.Venue) ([]models.MergedVenueView, error) {
	statuses, err := s.repo.LiveStatuses(ctx)
	if err != nil {
		return nil, err
	}
	return availability.Merge(venues, statuses), nil
}

// Venues returns every stored venue with its availability.
func (s *ClientService) Venues(ctx context.Context) ([]models.MergedVenueView, error) {
	venues, err := s.repo.Venues(ctx)
	if err != nil {
		return nil, err
	}
	return s.mergeWithStatuses(ctx, venues)
}

// Map is Venues filtered and sorted by q.
func (s *ClientService) Map(ctx context.Context, q availability.MapQuery) ([]models.MergedVenueView, error) {
	views, err := s.Venues(ctx)
	if err != nil {
		return nil, err
	}
	return availability.ApplyMapQuery(views, q), nil
}

// Nearby asks the directory for venues around a point and merges them with
// stored statuses. A nil radius means DefaultRadiusKm.
func (s *ClientService) Nearby(ctx context.Context, lat, lng float64, radius *float64, category string) ([]models.MergedVenueView, error) {
	radiusKm := float64(models.DefaultRadiusKm)
	if radius != nil {
		radiusKm = *radius
	}
	if radiusKm < models.MinNearbyRadiusKm || radiusKm > models.MaxNearbyRadiusKm {
		return nil, domain.Validation("radiusKm must be between 0.1 and 20")
	}
	if s.directory == nil {
		return []models.MergedVenueView{}, nil
	}

	venues, err := s.directory.SearchNearby(ctx, lat, lng, radiusKm, category)
	if err != nil {
		s.logger.Error().Err(err).Msg("nearby search failed")
		return nil, err
	}
	views, err := s.mergeWithStatuses(ctx, venues)
	if err != nil {
		return nil, err
	}
	return availability.ApplyMapQuery(views, availability.MapQuery{Lat: &lat, Lng: &lng, RadiusKm: &radiusKm}), nil
}
