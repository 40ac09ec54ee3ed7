package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tutfree/internal/config"

	"github.com/rs/zerolog"
)

// BackupService periodically snapshots the store. SQLite stores are copied
// with VACUUM INTO; other stores are dumped as one JSON object keyed by
// collection.
type BackupService struct {
	store  Store
	config config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(store Store, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

func (s *BackupService) Start(ctx context.Context) {
	if !s.config.Enabled {
		s.logger.Info().Msg("backup service is disabled")
		return
	}

	interval := 24 * time.Hour
	if s.config.Schedule != "" {
		if d, err := time.ParseDuration(s.config.Schedule); err == nil && d > 0 {
			interval = d
		} else {
			s.logger.Warn().Str("schedule", s.config.Schedule).Msg("invalid backup schedule, using 24h")
		}
	}
	s.logger.Info().Dur("interval", interval).Msg("backup service started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.PerformBackup(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PerformBackup(ctx); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.CleanupOldBackups()
		}
	}
}

// PerformBackup writes one snapshot and returns its path.
func (s *BackupService) PerformBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.config.StoragePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := time.Now().Format("20060102_150405.000")
	if sq, ok := s.store.(*SQLiteStore); ok {
		path := filepath.Join(s.config.StoragePath, fmt.Sprintf("backup_%s.db", stamp))
		if err := vacuumInto(ctx, sq.db, path); err != nil {
			return "", err
		}
		s.logger.Info().Str("path", path).Msg("sqlite backup completed")
		return path, nil
	}

	snapshot := make(map[string]json.RawMessage, len(Collections))
	for _, c := range Collections {
		data, err := s.store.Load(ctx, c)
		if err != nil {
			return "", fmt.Errorf("failed to snapshot %s: %w", c, err)
		}
		snapshot[c] = data
	}
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	path := filepath.Join(s.config.StoragePath, fmt.Sprintf("backup_%s.json", stamp))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.logger.Info().Str("path", path).Msg("snapshot backup completed")
	return path, nil
}

func vacuumInto(ctx context.Context, db *sql.DB, path string) error {
	escaped := strings.ReplaceAll(path, "'", "''")
	if _, err := db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", escaped)); err != nil {
		return fmt.Errorf("vacuum into %s: %w", path, err)
	}
	return nil
}

// CleanupOldBackups removes snapshots older than RetentionDays.
func (s *BackupService) CleanupOldBackups() {
	if s.config.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read backup directory for cleanup")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			_ = os.Remove(filepath.Join(s.config.StoragePath, file.Name()))
		}
	}
}
