package availability

import (
	"time"

	"tutfree/internal/models"
)

// Merge joins venues with their live statuses, preserving venue order.
func Merge(venues []models.Venue, statuses []models.LiveStatus) []models.MergedVenueView {
	return MergeAt(venues, statuses, time.Now())
}

// MergeAt is Merge with an explicit clock for venues without a status.
func MergeAt(venues []models.Venue, statuses []models.LiveStatus, now time.Time) []models.MergedVenueView {
	index := buildIndex(statuses)
	stamp := models.Timestamp(now)

	out := make([]models.MergedVenueView, 0, len(venues))
	for _, venue := range venues {
		status, ok := index[venue.ID]
		if !ok {
			out = append(out, models.MergedVenueView{
				Venue: venue,
				TutFree: models.AvailabilityBlock{
					Connected:   false,
					Mode:        models.ModeNotConnected,
					StatusColor: models.ColorRed,
					Badge:       models.BadgeBusyOrNotConnected,
					UpdatedAt:   stamp,
				},
			})
			continue
		}

		color := Classify(status.Mode, status.NextAvailableInMinutes)
		out = append(out, models.MergedVenueView{
			Venue: venue,
			TutFree: models.AvailabilityBlock{
				Connected:              true,
				Mode:                   status.Mode,
				StatusColor:            color,
				Badge:                  Badge(color),
				NextAvailableInMinutes: status.NextAvailableInMinutes,
				UpdatedAt:              status.UpdatedAt,
			},
		})
	}
	return out
}

// buildIndex keys statuses by venue id; a later duplicate replaces an earlier one.
func buildIndex(statuses []models.LiveStatus) map[string]models.LiveStatus {
	index := make(map[string]models.LiveStatus, len(statuses))
	for _, s := range statuses {
		index[s.TwoGisID] = s
	}
	return index
}
