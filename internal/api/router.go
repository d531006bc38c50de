package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/middleware"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/config"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/metrics"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	System    *service.SystemService
	BsMonth   service.MonthResolver
	AdMonth   *service.AdMonthService
	Converter *service.ConverterService
	Export    *service.ExportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger, m))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Method(http.MethodGet, "/metrics", m.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/convert", func(r chi.Router) {
			convertHandler := handlers.NewConvertHandler(svc.Converter)
			r.Get("/ad-to-bs", convertHandler.AdToBs)
			r.Get("/bs-to-ad", convertHandler.BsToAd)
			r.Get("/today", convertHandler.Today)
		})

		r.Route("/calendar", func(r chi.Router) {
			calendarHandler := handlers.NewCalendarHandler(svc.BsMonth, svc.AdMonth, svc.Export)

			r.Route("/bs/{year}/{month}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateBsMonthParams)
				r.Get("/", calendarHandler.BsMonth)
				r.Get("/ics", calendarHandler.BsMonthICS)
			})

			r.Route("/ad/{year}/{month}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateAdMonthParams)
				r.Get("/", calendarHandler.AdMonth)
				r.Get("/grid", calendarHandler.AdMonthGrid)
			})
		})
	})

	return r
}
