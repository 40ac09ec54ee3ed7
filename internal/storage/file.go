package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// fileNames keeps the on-disk names used by the seed data and older deployments.
var fileNames = map[string]string{
	CollectionVenues:           "seed.json",
	CollectionBookings:         "bookings.json",
	CollectionLiveStatuses:     "live-statuses.json",
	CollectionClaims:           "claims.json",
	CollectionBusinessAccounts: "business-accounts.json",
}

// FileStore keeps each collection as a pretty-printed JSON array file.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, fileNames[collection])
}

func (s *FileStore) Load(_ context.Context, collection string) ([]byte, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	p := s.path(collection)
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(p, emptyCollection, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", p, err)
		}
		return emptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// Replace writes to a temp file in the same directory and renames it over
// the collection file.
func (s *FileStore) Replace(_ context.Context, collection string, data []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+fileNames[collection]+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", collection, err)
	}
	return nil
}
