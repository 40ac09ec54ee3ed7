package storage

import (
	"errors"
	"fmt"

	"tutfree/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var errRedisNotConnected = errors.New("redis backend selected but redis is not connected")

// Open builds the configured backend. With FallbackToFile set, a sqlite or
// redis backend is wrapped in a FailoverStore over the file store, and a
// primary that cannot be built at all degrades to the file store alone. The
// returned close func is never nil.
func Open(cfg config.StorageConfig, rdb *redis.Client, logger *zerolog.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	files, err := NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, noop, err
	}

	var primary Store
	closeFn := noop
	switch cfg.Backend {
	case "", config.BackendFile:
		logger.Info().Str("dir", files.Dir()).Msg("using file store")
		return files, noop, nil
	case config.BackendSQLite:
		sq, err := NewSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			return degrade(files, cfg, err, logger)
		}
		logger.Info().Str("path", sq.Path()).Msg("using sqlite store")
		primary, closeFn = sq, sq.Close
	case config.BackendRedis:
		if rdb == nil {
			return degrade(files, cfg, errRedisNotConnected, logger)
		}
		primary = NewRedisStore(rdb)
		logger.Info().Msg("using redis store")
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if cfg.FallbackToFile {
		logger.Info().Str("backend", cfg.Backend).Str("fallback_dir", files.Dir()).Msg("file fallback enabled")
		return NewFailoverStore(primary, files, logger), closeFn, nil
	}
	return primary, closeFn, nil
}

func degrade(files *FileStore, cfg config.StorageConfig, cause error, logger *zerolog.Logger) (Store, func() error, error) {
	noop := func() error { return nil }
	if !cfg.FallbackToFile {
		return nil, noop, cause
	}
	logger.Warn().Err(cause).Str("backend", cfg.Backend).Str("dir", files.Dir()).
		Msg("primary store unavailable, serving from file store")
	return files, noop, nil
}
