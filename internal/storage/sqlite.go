package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// SQLiteStore keeps each collection as one row.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zerolog.Logger
}

func NewSQLiteStore(path string, logger *zerolog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
            name TEXT PRIMARY KEY,
            body BLOB NOT NULL,
            updated_at DATETIME NOT NULL
        )`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if logger != nil {
		logger.Debug().Str("path", path).Msg("sqlite schema ready")
	}
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Load(ctx context.Context, collection string) ([]byte, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM collections WHERE name = ?`, collection).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return emptyCollection, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	return body, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, collection string, data []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	query := `INSERT INTO collections (name, body, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, collection, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to replace %s: %w", collection, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
