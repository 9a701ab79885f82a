package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/innova/restaurant-reservations/internal/observability"
	"github.com/innova/restaurant-reservations/internal/rateLimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(TracingMiddleware)

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(JWTMiddleware(jwtSecret))
		r.Use(RateLimitMiddleware(rl))
		r.Use(IdempotencyMiddleware)

		r.Post("/v1/reservations", h.CreateReservation)
		r.Get("/v1/reservations", h.ListReservations)
		r.Get("/v1/reservations/{id}", h.GetReservation)
		r.Patch("/v1/reservations/{id}", h.UpdateReservation)
		r.Put("/v1/reservations/{id}/status", h.UpdateStatus)
		r.Post("/v1/reservations/{id}/confirm", h.ConfirmReservation)
		r.Post("/v1/reservations/{id}/checkin", h.CheckInReservation)
		r.Post("/v1/reservations/{id}/cancel", h.CancelReservation)

		r.Get("/v1/customers/{id}/reservations", h.ListCustomerReservations)
		r.Get("/v1/restaurants/{id}/reservations", h.ListRestaurantReservations)

		r.Post("/v1/restaurants/{id}/reviews", h.AddReview)
		r.Get("/v1/restaurants/{id}/reviews", h.ListReviews)
	})

	return r
}
