package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/rateLimit"
	"github.com/rs/cors"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(TracingMiddleware)
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Idempotency-Key"},
			AllowCredentials: true,
		}).Handler)
	}

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(h.sessions, logger))
		r.Use(RateLimitMiddleware(rl))

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/venues", h.ListVenues)
		r.Get("/venues/{id}", h.GetVenue)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/session", h.CurrentSession)

			r.Get("/venues/{id}/bookings", h.ListVenueBookings)
			r.Post("/venues", h.CreateVenue)
			r.Put("/venues/{id}", h.UpdateVenue)
			r.Delete("/venues/{id}", h.DeleteVenue)

			r.Route("/booking/draft", func(r chi.Router) {
				r.Post("/", h.StartDraft)
				r.Get("/", h.GetDraft)
				r.Delete("/", h.ClearDraft)
				r.Put("/dates", h.SetDraftDates)
				r.Put("/guests", h.SetDraftGuests)
				r.Post("/guests/increment", h.IncrementDraftGuests)
				r.Post("/guests/decrement", h.DecrementDraftGuests)
				r.Post("/modal", h.OpenDraftModal)
				r.Delete("/modal", h.CloseDraftModal)
				r.With(IdempotencyKeyMiddleware).Post("/submit", h.SubmitDraft)
			})

			r.Get("/bookings/{id}", h.GetBooking)
			r.Put("/bookings/{id}", h.UpdateBooking)
			r.Delete("/bookings/{id}", h.DeleteBooking)

			r.Get("/profiles/{name}", h.GetProfile)
			r.Put("/profiles/{name}", h.UpdateProfile)
			r.Get("/profiles/{name}/bookings", h.ListProfileBookings)
			r.Get("/profiles/{name}/venues", h.ListProfileVenues)
			r.Get("/profiles/{name}/overview", h.ProfileOverview)
			r.Get("/profiles/{name}/history", h.BookingHistory)
		})
	})

	return r
}
