package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"tutfree/internal/domain"
	"tutfree/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SetLiveStatusInput is an owner's status update. NextAvailableInMinutes
// holds the raw decoded JSON value.
type SetLiveStatusInput struct {
	Mode                   string      `json:"mode"`
	NextAvailableInMinutes interface{} `json:"nextAvailableInMinutes"`
	ActorAccountID         string      `json:"actorAccountId"`
}

type BusinessService struct {
	repo     domain.Repository
	notifier domain.Notifier
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBusinessService(repo domain.Repository, notifier domain.Notifier, logger *zerolog.Logger) *BusinessService {
	return &BusinessService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// MockAuth registers a business account without any verification.
func (s *BusinessService) MockAuth(ctx context.Context, ownerName, phone string) (models.BusinessAccount, error) {
	if strings.TrimSpace(ownerName) == "" || strings.TrimSpace(phone) == "" {
		return models.BusinessAccount{}, domain.Validation("ownerName and phone are required")
	}

	accounts, err := s.repo.BusinessAccounts(ctx)
	if err != nil {
		return models.BusinessAccount{}, err
	}
	account := models.BusinessAccount{
		ID:        uuid.NewString(),
		OwnerName: ownerName,
		Phone:     phone,
		CreatedAt: models.Timestamp(s.now()),
	}
	if err := s.repo.SaveBusinessAccounts(ctx, append(accounts, account)); err != nil {
		return models.BusinessAccount{}, err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("business account created")
	return account, nil
}

// SearchDirectory matches venues by name or address, case-insensitively.
// An empty query returns every venue.
func (s *BusinessService) SearchDirectory(ctx context.Context, query string) ([]models.Venue, error) {
	venues, err := s.repo.Venues(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	if q == "" {
		return venues, nil
	}
	out := make([]models.Venue, 0)
	for _, v := range venues {
		if strings.Contains(strings.ToLower(v.Name), q) || strings.Contains(strings.ToLower(v.Address), q) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ClaimPoint links an account to a directory id. Claims are verified
// immediately.
func (s *BusinessService) ClaimPoint(ctx context.Context, accountID, twoGisID string) (models.Claim, error) {
	if strings.TrimSpace(accountID) == "" || strings.TrimSpace(twoGisID) == "" {
		return models.Claim{}, domain.Validation("accountId and twoGisId are required")
	}

	claims, err := s.repo.Claims(ctx)
	if err != nil {
		return models.Claim{}, err
	}
	claim := models.Claim{
		ID:        uuid.NewString(),
		AccountID: accountID,
		TwoGisID:  twoGisID,
		Status:    models.ClaimVerified,
		CreatedAt: models.Timestamp(s.now()),
	}
	if err := s.repo.SaveClaims(ctx, append(claims, claim)); err != nil {
		return models.Claim{}, err
	}

	s.logger.Info().Str("account_id", accountID).Str("venue_id", twoGisID).Msg("point claimed")
	return claim, nil
}

// SetLiveStatus upserts the status of one venue and broadcasts it.
func (s *BusinessService) SetLiveStatus(ctx context.Context, twoGisID string, in SetLiveStatusInput) (models.LiveStatus, error) {
	if !models.IsValidMode(in.Mode) {
		return models.LiveStatus{}, domain.Validation("mode must be free_now|busy|next_window")
	}
	if strings.TrimSpace(twoGisID) == "" {
		return models.LiveStatus{}, domain.Validation("twoGisId is required")
	}

	status := models.LiveStatus{
		TwoGisID:  twoGisID,
		Mode:      in.Mode,
		UpdatedAt: models.Timestamp(s.now()),
	}
	if in.Mode == models.ModeNextWindow {
		status.NextAvailableInMinutes = nextWindowMinutes(in.NextAvailableInMinutes)
	}
	if in.ActorAccountID != "" {
		actor := in.ActorAccountID
		status.ActorAccountID = &actor
	}

	statuses, err := s.repo.LiveStatuses(ctx)
	if err != nil {
		return models.LiveStatus{}, err
	}
	statuses = upsertStatus(statuses, status)
	if err := s.repo.SaveLiveStatuses(ctx, statuses); err != nil {
		s.logger.Error().Err(err).Str("venue_id", twoGisID).Msg("failed to save live status")
		return models.LiveStatus{}, err
	}

	s.logger.Info().Str("venue_id", twoGisID).Str("mode", status.Mode).Msg("live status updated")
	if s.notifier != nil {
		s.notifier.StatusUpdated(status)
	}
	return status, nil
}

// upsertStatus replaces the first record for the venue, or appends.
func upsertStatus(statuses []models.LiveStatus, status models.LiveStatus) []models.LiveStatus {
	for i := range statuses {
		if statuses[i].TwoGisID == status.TwoGisID {
			statuses[i] = status
			return statuses
		}
	}
	return append(statuses, status)
}

// nextWindowMinutes resolves the requested wait. Missing, zero, empty and
// false values mean the default window; values that are not numbers resolve
// to nil, which classifies as red.
func nextWindowMinutes(v interface{}) *float64 {
	def := float64(models.DefaultNextWindowMinutes)
	switch x := v.(type) {
	case nil:
		return &def
	case float64:
		if x == 0 {
			return &def
		}
		return &x
	case int:
		if x == 0 {
			return &def
		}
		f := float64(x)
		return &f
	case bool:
		if !x {
			return &def
		}
		one := 1.0
		return &one
	case string:
		if x == "" {
			return &def
		}
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			zero := 0.0
			return &zero
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}
