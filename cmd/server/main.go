package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/graham-screener/internal/app"
	"github.com/ndewijer/graham-screener/internal/config"
	"github.com/ndewijer/graham-screener/internal/logging"
	"github.com/ndewijer/graham-screener/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}
	log.Info().Str("version", version.Version).Str("commit", version.Commit).Msg("graham screener")

	// Wait for interrupt signal for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		a.Close()
		os.Exit(1)
	}
}
