package twogis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"tutfree/internal/models"
)

type itemsResponse struct {
	Meta struct {
		Code  int `json:"code"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"meta"`
	Result struct {
		Items []Item `json:"items"`
	} `json:"result"`
}

// ItemID accepts both string and numeric ids.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	*id = ItemID(b)
	return nil
}

// Item is one catalog entry as returned by the items endpoint.
type Item struct {
	ID          ItemID `json:"id"`
	Name        string `json:"name"`
	PurposeName string `json:"purpose_name"`
	AddressName string `json:"address_name"`
	Point       *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"point"`
	ContactGroups []struct {
		Contacts []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"contacts"`
	} `json:"contact_groups"`
	Schedule *struct {
		WorkingHoursText string `json:"working_hours_text"`
	} `json:"schedule"`
	Reviews *struct {
		GeneralRating *float64 `json:"general_rating"`
	} `json:"reviews"`
	Rubrics []struct {
		Name string `json:"name"`
	} `json:"rubrics"`
}

func hasPoint(item Item) bool {
	return item.Point != nil && item.Point.Lat != 0 && item.Point.Lon != 0
}

// ToVenues maps catalog items to venues. Items without coordinates are
// skipped; ids fall back to the venue's position among the kept items when
// the catalog omits them.
func ToVenues(items []Item) []models.Venue {
	venues := make([]models.Venue, 0, len(items))
	for _, item := range items {
		if !hasPoint(item) {
			continue
		}

		id := string(item.ID)
		if id == "" {
			id = fmt.Sprint(len(venues))
		}

		category := item.PurposeName
		if category == "" {
			category = "service"
		}

		v := models.Venue{
			ID:         "2gis-" + id,
			Name:       item.Name,
			Category:   category,
			Address:    item.AddressName,
			Phone:      firstContact(item),
			Rating:     models.ImportedRating,
			PriceLevel: models.ImportedPriceLevel,
			Lat:        item.Point.Lat,
			Lng:        item.Point.Lon,
			Slots:      []string{},
		}
		if item.Schedule != nil {
			v.WorkingHours = item.Schedule.WorkingHoursText
		}
		venues = append(venues, v)
	}
	return venues
}

// nearbyVenues is ToVenues plus the catalog rating and rubric, which the
// nearby search asks for.
func nearbyVenues(items []Item, category string) []models.Venue {
	venues := ToVenues(items)
	j := 0
	for _, item := range items {
		if !hasPoint(item) {
			continue
		}
		v := &venues[j]
		j++
		if item.Reviews != nil && item.Reviews.GeneralRating != nil {
			v.Rating = *item.Reviews.GeneralRating
		}
		if item.PurposeName == "" {
			switch {
			case len(item.Rubrics) > 0 && item.Rubrics[0].Name != "":
				v.Category = strings.ToLower(item.Rubrics[0].Name)
			case category != "":
				v.Category = category
			}
		}
		if v.Name == "" {
			v.Name = "Unknown"
		}
	}
	return venues
}

func firstContact(item Item) string {
	if len(item.ContactGroups) == 0 || len(item.ContactGroups[0].Contacts) == 0 {
		return ""
	}
	return item.ContactGroups[0].Contacts[0].Value
}
