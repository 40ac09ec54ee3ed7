package availability

import (
	"sort"

	"tutfree/internal/models"
)

// MapQuery holds the optional client map filters.
type MapQuery struct {
	Lat      *float64
	Lng      *float64
	RadiusKm *float64 // nil means DefaultRadiusKm
	Category string
	FreeNow  bool
}

func (q MapQuery) hasPoint() bool {
	return q.Lat != nil && q.Lng != nil
}

// ApplyMapQuery filters and sorts merged views: radius, category, free-now,
// then distance ascending when known, otherwise rating descending.
func ApplyMapQuery(views []models.MergedVenueView, q MapQuery) []models.MergedVenueView {
	radius := float64(models.DefaultRadiusKm)
	if q.RadiusKm != nil {
		radius = *q.RadiusKm
	}

	out := make([]models.MergedVenueView, 0, len(views))
	for _, v := range views {
		if q.hasPoint() {
			d := HaversineKm(*q.Lat, *q.Lng, v.Lat, v.Lng)
			if d > radius {
				continue
			}
			v.DistanceKm = &d
		}
		if q.Category != "" && v.Category != q.Category {
			continue
		}
		if q.FreeNow && v.TutFree.StatusColor != models.ColorGreen {
			continue
		}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DistanceKm != nil && b.DistanceKm != nil {
			return *a.DistanceKm < *b.DistanceKm
		}
		return a.Rating > b.Rating
	})
	return out
}
