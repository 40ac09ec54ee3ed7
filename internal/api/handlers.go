package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tutfree/internal/availability"
	"tutfree/internal/domain"
	"tutfree/internal/models"
	"tutfree/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func pathParam(r *http.Request, name string) string {
	return r.URL.Query().Get(":" + name)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "brand": "TutFree"})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (h *Handler) listVenues(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Client.Venues(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) clientMap(w http.ResponseWriter, r *http.Request) {
	q, err := parseMapQuery(r.URL.Query())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	items, err := h.svc.Client.Map(r.Context(), q)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) clientNearby(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	if v.Get("lat") == "" || v.Get("lng") == "" {
		writeDomainError(w, h.logger, domain.Validation("lat and lng are required"))
		return
	}
	q, err := parseMapQuery(v)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	items, err := h.svc.Client.Nearby(r.Context(), *q.Lat, *q.Lng, q.RadiusKm, q.Category)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// parseMapQuery reads lat, lng, radiusKm, category and freeNow. The point is
// used only when both coordinates are present. A missing radius is left nil.
func parseMapQuery(v url.Values) (availability.MapQuery, error) {
	q := availability.MapQuery{
		Category: v.Get("category"),
		FreeNow:  v.Get("freeNow") == "true",
	}

	if latRaw, lngRaw := v.Get("lat"), v.Get("lng"); latRaw != "" && lngRaw != "" {
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
		lng, err2 := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
		if err1 != nil || err2 != nil {
			return q, domain.Validation("lat and lng must be numbers")
		}
		q.Lat, q.Lng = &lat, &lng
	}

	if raw := v.Get("radiusKm"); raw != "" {
		radius, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) {
			return q, domain.Validation("radiusKm must be a number")
		}
		q.RadiusKm = &radius
	}
	return q, nil
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var in service.CreateBookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	booking, err := h.svc.Bookings.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"booking":  booking,
		"pushHook": models.NewBookingPushHook,
	})
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.Bookings.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (h *Handler) mockAuth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OwnerName string `json:"ownerName"`
		Phone     string `json:"phone"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	account, err := h.svc.Business.MockAuth(r.Context(), body.OwnerName, body.Phone)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"account": account})
}

func (h *Handler) searchDirectory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Business.SearchDirectory(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) claimPoint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID string `json:"accountId"`
		TwoGisID  string `json:"twoGisId"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	claim, err := h.svc.Business.ClaimPoint(r.Context(), body.AccountID, body.TwoGisID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"claim": claim})
}

func (h *Handler) setLiveStatus(w http.ResponseWriter, r *http.Request) {
	var in service.SetLiveStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	status, err := h.svc.Business.SetLiveStatus(r.Context(), pathParam(r, "id"), in)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (h *Handler) venueBookings(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Bookings.ListForVenue(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) exportBookings(w http.ResponseWriter, r *http.Request) {
	venueID := pathParam(r, "id")
	var buf bytes.Buffer
	if err := h.svc.Export.ExportVenueBookings(r.Context(), venueID, &buf); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bookings_"+venueID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) decideBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Decision string `json:"decision"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	booking, err := h.svc.Bookings.Decide(r.Context(), pathParam(r, "id"), body.Decision)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (h *Handler) syncDirectory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	n, err := h.svc.Sync.Sync(r.Context(), body.Query)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": n})
}
