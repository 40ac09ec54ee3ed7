package service

import (
	"context"
	"strings"

	"tutfree/internal/domain"

	"github.com/rs/zerolog"
)

// SyncService replaces stored venues with a fresh directory import.
type SyncService struct {
	directory    domain.Directory
	repo         domain.Repository
	defaultQuery string
	logger       *zerolog.Logger
}

func NewSyncService(directory domain.Directory, repo domain.Repository, defaultQuery string, logger *zerolog.Logger) *SyncService {
	if defaultQuery == "" {
		defaultQuery = "service"
	}
	return &SyncService{directory: directory, repo: repo, defaultQuery: defaultQuery, logger: logger}
}

// Sync imports venues for query and returns how many were imported. An empty
// import leaves stored venues untouched.
func (s *SyncService) Sync(ctx context.Context, query string) (int, error) {
	if strings.TrimSpace(query) == "" {
		query = s.defaultQuery
	}

	venues, err := s.directory.Import(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("directory import failed")
		return 0, err
	}
	if len(venues) == 0 {
		s.logger.Info().Str("query", query).Msg("directory import returned nothing")
		return 0, nil
	}

	if err := s.repo.ReplaceVenues(ctx, venues); err != nil {
		return 0, err
	}
	s.logger.Info().Str("query", query).Int("imported", len(venues)).Msg("venues replaced from directory")
	return len(venues), nil
}
