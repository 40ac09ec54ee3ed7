package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverStore serves from primary and switches to fallback when primary
// errors. Primary is retried once recoveryInterval has passed. Writes made
// while primary is down are not copied back.
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) markDown(err error, op, collection string) {
	s.logger.Error().Err(err).Str("op", op).Str("collection", collection).
		Msg("primary store failed, falling back")
	s.isDown.Store(true)
	s.mu.Lock()
	s.lastCheck = time.Now()
	s.mu.Unlock()
}

func (s *FailoverStore) shouldRetryPrimary() bool {
	if !s.isDown.Load() {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastCheck) > recoveryInterval
}

func (s *FailoverStore) Load(ctx context.Context, collection string) ([]byte, error) {
	if s.shouldRetryPrimary() {
		data, err := s.primary.Load(ctx, collection)
		if err == nil {
			if s.isDown.Swap(false) {
				s.logger.Info().Msg("primary store recovered")
			}
			return data, nil
		}
		s.markDown(err, "load", collection)
	}
	return s.fallback.Load(ctx, collection)
}

func (s *FailoverStore) Replace(ctx context.Context, collection string, data []byte) error {
	if s.shouldRetryPrimary() {
		err := s.primary.Replace(ctx, collection, data)
		if err == nil {
			if s.isDown.Swap(false) {
				s.logger.Info().Msg("primary store recovered")
			}
			return nil
		}
		s.markDown(err, "replace", collection)
	}
	return s.fallback.Replace(ctx, collection, data)
}
