// Package app assembles the services from configuration. It is shared by the
// HTTP server and the command line front end.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/graham-screener/internal/api"
	"github.com/ndewijer/graham-screener/internal/cache"
	"github.com/ndewijer/graham-screener/internal/config"
	"github.com/ndewijer/graham-screener/internal/database"
	"github.com/ndewijer/graham-screener/internal/fmp"
	"github.com/ndewijer/graham-screener/internal/metrics"
	"github.com/ndewijer/graham-screener/internal/nasdaq"
	"github.com/ndewijer/graham-screener/internal/repository"
	"github.com/ndewijer/graham-screener/internal/scheduler"
	"github.com/ndewijer/graham-screener/internal/screening"
	"github.com/ndewijer/graham-screener/internal/service"
	"github.com/ndewijer/graham-screener/internal/yahoo"
)

const shutdownTimeout = 30 * time.Second

// App holds the wired services and the resources they share.
type App struct {
	Config       *config.Config
	DB           *sql.DB
	Metrics      *metrics.Metrics
	System       *service.SystemService
	Fundamentals *service.FundamentalsService
	Screening    *service.ScreeningService
	Symbols      *service.SymbolService
}

// New opens the database, applies pending migrations and builds every service.
// The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	criteria := screening.DefaultCriteria()
	if cfg.Screen.CriteriaFile != "" {
		var err error
		if criteria, err = screening.LoadCriteria(cfg.Screen.CriteriaFile); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", cfg.Database.Path).Msg("database ready")

	store, err := newStore(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Sources.HTTPTimeout}
	m := metrics.New()

	var ratingClient fmp.RatingClient
	if cfg.Sources.FMPAPIKey != "" {
		ratingClient = fmp.NewClient(httpClient, cfg.Sources.FMPBaseURL, cfg.Sources.FMPAPIKey)
	} else {
		log.Info().Msg("FMP_API_KEY not set, analyst ratings will be assumed")
	}

	fundamentals := service.NewFundamentalsService(
		store,
		yahoo.NewFinanceClient(httpClient, cfg.Sources.YahooBaseURL, cfg.Sources.YahooChartURL),
		ratingClient,
		m,
	)

	return &App{
		Config:  cfg,
		DB:      db,
		Metrics: m,
		System: service.NewSystemService(db, map[string]bool{
			"fmp_rating":        ratingClient != nil,
			"scheduled_refresh": cfg.Scheduler.Enabled(),
			"sqlite_cache":      cfg.Cache.Backend == config.CacheBackendSQLite,
		}),
		Fundamentals: fundamentals,
		Screening: service.NewScreeningService(
			db,
			fundamentals,
			screening.NewEngine(criteria),
			repository.NewScreeningResultRepository(db),
			cfg.Screen.Concurrency,
		),
		Symbols: service.NewSymbolService(nasdaq.NewClient(httpClient, cfg.Sources.NasdaqBaseURL), m),
	}, nil
}

func newStore(cfg *config.Config, db *sql.DB) (service.FundamentalsStore, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendSQLite:
		return repository.NewFundamentalsRepository(db), nil
	case config.CacheBackendFile, "":
		store, err := cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Router returns the HTTP API handler.
func (a *App) Router() http.Handler {
	return api.NewRouter(a.System, a.Fundamentals, a.Screening, a.Symbols, a.Metrics, a.Config)
}

// Serve runs the HTTP API, and the scheduled refresh when one is configured,
// until ctx is cancelled. It then shuts both down gracefully.
func (a *App) Serve(ctx context.Context) error {
	var refresher *scheduler.Refresher
	if a.Config.Scheduler.Enabled() {
		refresher = scheduler.NewRefresher(a.Screening, a.Config.Scheduler.WatchlistFile, time.Hour)
		if err := refresher.Schedule(a.Config.Scheduler.Schedule); err != nil {
			return err
		}
		refresher.Start()
		log.Info().
			Str("schedule", a.Config.Scheduler.Schedule).
			Time("next", refresher.Next()).
			Msg("scheduled refresh enabled")
	}

	server := &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      a.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.Config.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if refresher != nil {
			<-refresher.Stop().Done()
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if refresher != nil {
		select {
		case <-refresher.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("scheduled refresh still running at shutdown")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
