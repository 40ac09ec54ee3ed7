package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"tutfree/internal/models"

	"github.com/rs/zerolog"
)

// SeedVenues loads venues from a JSON file into an empty venues collection.
// A non-empty collection is left untouched.
func SeedVenues(ctx context.Context, repo *Repository, path string, logger *zerolog.Logger) (int, error) {
	if path == "" {
		return 0, nil
	}

	existing, err := repo.Venues(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}
	var venues []models.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := repo.ReplaceVenues(ctx, venues); err != nil {
		return 0, err
	}

	if logger != nil {
		logger.Info().Str("path", path).Int("venues", len(venues)).Msg("venues seeded")
	}
	return len(venues), nil
}
