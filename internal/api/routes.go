package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health                      service and almanac health
//	GET /api/v1/today                almanac record for today
//	GET /api/v1/day/{date}           almanac record for one date
//	GET /api/v1/range                almanac records for a date range
//	GET /api/v1/month/{year}/{month} month grid with lunar labels
//	GET /api/v1/year/{year}          lunar year overview
//	GET /api/v1/terms/{year}         the 24 solar terms of a year
//	GET /api/v1/newyear              next lunar new year countdown
//	GET /api/v1/calendar.ics         festival and term calendar feed
func SetupRoutes(handlers *Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/today", handlers.GetToday)
		r.Get("/day/{date}", handlers.GetDay)
		r.Get("/range", handlers.GetRange)
		r.Get("/month/{year}/{month}", handlers.GetMonth)
		r.Get("/year/{year}", handlers.GetYear)
		r.Get("/terms/{year}", handlers.GetTerms)
		r.Get("/newyear", handlers.GetNewYear)
		r.Get("/calendar.ics", handlers.GetCalendar)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}
