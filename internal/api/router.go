package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/graham-screener/internal/api/handlers"
	custommiddleware "github.com/ndewijer/graham-screener/internal/api/middleware"
	"github.com/ndewijer/graham-screener/internal/config"
	"github.com/ndewijer/graham-screener/internal/metrics"
	"github.com/ndewijer/graham-screener/internal/service"
)

// NewRouter creates and configures the HTTP router.
// m may be nil, in which case /metrics is not served.
func NewRouter(
	systemService *service.SystemService,
	fundamentalsService *service.FundamentalsService,
	screeningService *service.ScreeningService,
	symbolService *service.SymbolService,
	m *metrics.Metrics,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/fundamentals", func(r chi.Router) {
			fundamentalsHandler := handlers.NewFundamentalsHandler(fundamentalsService)
			r.Get("/", fundamentalsHandler.Cached)
			r.With(custommiddleware.ValidateSymbolMiddleware).Get("/{symbol}", fundamentalsHandler.Fundamentals)
		})

		r.Route("/screen", func(r chi.Router) {
			screeningHandler := handlers.NewScreeningHandler(screeningService)
			r.Post("/", screeningHandler.ScreenBatch)
			r.Get("/criteria", screeningHandler.Criteria)
			r.With(custommiddleware.ValidateSymbolMiddleware).Get("/history/{symbol}", screeningHandler.History)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/runs/{uuid}", screeningHandler.Run)
			r.With(custommiddleware.ValidateSymbolMiddleware).Get("/{symbol}", screeningHandler.Screen)
		})

		r.Route("/symbols", func(r chi.Router) {
			symbolHandler := handlers.NewSymbolHandler(symbolService)
			r.Get("/", symbolHandler.Lists)
			r.Get("/{list}", symbolHandler.Directory)
		})
	})

	return r
}
