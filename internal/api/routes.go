package api

import (
	"net/http"

	"tutfree/internal/config"
	"tutfree/internal/service"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Services bundles what the handlers call into.
type Services struct {
	Bookings *service.BookingService
	Business *service.BusinessService
	Client   *service.ClientService
	Sync     *service.SyncService
	Export   *service.ExportService
}

type Handler struct {
	svc    Services
	logger *zerolog.Logger
}

func NewHandler(svc Services, logger *zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes builds the full router. ws may be nil to disable the websocket
// endpoint.
func (h *Handler) Routes(cfg config.Config, ws http.Handler) http.Handler {
	limiter := newRateLimiter(cfg.RateLimit)
	standard := alice.New(recoverPanic(h.logger), logRequest(h.logger))
	api := standard.Append(limiter.middleware)

	route := func(pattern string, fn http.HandlerFunc) http.Handler {
		return api.Append(countRoute(pattern)).ThenFunc(fn)
	}

	mux := pat.New()

	mux.Get("/health", standard.ThenFunc(h.health))

	mux.Get("/api/venues", route("/api/venues", h.listVenues))
	mux.Get("/api/client/map/nearby", route("/api/client/map/nearby", h.clientNearby))
	mux.Get("/api/client/map", route("/api/client/map", h.clientMap))
	mux.Get("/api/client/bookings/:id", route("/api/client/bookings/:id", h.getBooking))

	mux.Post("/api/bookings", route("/api/bookings", h.createBooking))
	mux.Get("/api/bookings/:id", route("/api/bookings/:id", h.getBooking))

	mux.Post("/api/business/auth/mock", route("/api/business/auth/mock", h.mockAuth))
	mux.Get("/api/business/search-2gis", route("/api/business/search-2gis", h.searchDirectory))
	mux.Post("/api/business/claim-point", route("/api/business/claim-point", h.claimPoint))
	mux.Post("/api/business/bookings/:id/decision", route("/api/business/bookings/:id/decision", h.decideBooking))
	mux.Put("/api/business/:id/live-status", route("/api/business/:id/live-status", h.setLiveStatus))
	mux.Get("/api/business/:id/bookings/export", route("/api/business/:id/bookings/export", h.exportBookings))
	mux.Get("/api/business/:id/bookings", route("/api/business/:id/bookings", h.venueBookings))

	mux.Post("/api/sync/2gis", route("/api/sync/2gis", h.syncDirectory))

	if ws != nil {
		mux.Get("/ws", standard.Then(ws))
	}

	missing := standard.ThenFunc(notFound)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		mux.Add(method, "/api/", missing)
	}
	mux.NotFound = missing

	if cfg.HTTP.StaticDir != "" {
		mux.Get("/", http.FileServer(http.Dir(cfg.HTTP.StaticDir)))
	}

	origins := cfg.HTTP.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(mux)
}
