package worker

import (
	"context"
	"time"

	"tutfree/internal/config"
	"tutfree/internal/domain"
	"tutfree/internal/metrics"
	"tutfree/internal/models"

	"github.com/rs/zerolog"
)

// StatusJanitor resets free_now statuses that have not been refreshed
// within staleAfter to busy.
type StatusJanitor struct {
	repo       domain.Repository
	notifier   domain.Notifier
	interval   time.Duration
	staleAfter time.Duration
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewStatusJanitor(repo domain.Repository, notifier domain.Notifier, cfg config.JanitorConfig, logger *zerolog.Logger) *StatusJanitor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 2 * time.Hour
	}
	return &StatusJanitor{
		repo:       repo,
		notifier:   notifier,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

// Start runs the sweep every interval until ctx is done.
func (j *StatusJanitor) Start(ctx context.Context) {
	j.logger.Info().Dur("interval", j.interval).Dur("stale_after", j.staleAfter).Msg("status janitor started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("status janitor stopped")
			return
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.logger.Error().Err(err).Msg("status sweep failed")
			}
		}
	}
}

// Sweep resets stale statuses once and returns how many changed. Records
// with an unparseable updatedAt are left alone.
func (j *StatusJanitor) Sweep(ctx context.Context) (int, error) {
	statuses, err := j.repo.LiveStatuses(ctx)
	if err != nil {
		return 0, err
	}

	now := j.now()
	cutoff := now.Add(-j.staleAfter)
	stamp := models.Timestamp(now)

	var changed []models.LiveStatus
	for i := range statuses {
		s := &statuses[i]
		if s.Mode != models.ModeFreeNow {
			continue
		}
		updated, err := models.ParseTimestamp(s.UpdatedAt)
		if err != nil || !updated.Before(cutoff) {
			continue
		}
		s.Mode = models.ModeBusy
		s.NextAvailableInMinutes = nil
		s.UpdatedAt = stamp
		changed = append(changed, *s)
	}
	if len(changed) == 0 {
		return 0, nil
	}

	if err := j.repo.SaveLiveStatuses(ctx, statuses); err != nil {
		return 0, err
	}

	metrics.AddStaleReset(len(changed))
	for _, s := range changed {
		j.logger.Info().Str("venue_id", s.TwoGisID).Msg("stale free_now reset to busy")
		if j.notifier != nil {
			j.notifier.StatusUpdated(s)
		}
	}
	return len(changed), nil
}
