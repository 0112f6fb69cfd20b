package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/folio-labs/portfolio-backend/config"
	"github.com/folio-labs/portfolio-backend/internal/bootstrap"
	"github.com/folio-labs/portfolio-backend/internal/cronjob"
	"github.com/folio-labs/portfolio-backend/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: worker warm|warm-once")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.App.Environment, cfg.App.LogLevel)

	switch os.Args[1] {
	case "warm":
		runWarm(cfg, false)
	case "warm-once":
		runWarm(cfg, true)
	default:
		log.Fatal().Msgf("unknown command: %s", os.Args[1])
	}
}

func runWarm(cfg *config.Config, once bool) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cached, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}
	defer store.Close()

	if cached == nil {
		log.Fatal().Msg("REDIS_ADDR is not set, nothing to warm")
	}

	s := cronjob.NewScheduler(cached, cfg.Database.StoreTimeout)
	if once {
		if _, err := s.RunOnce(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := s.Start(ctx, cfg.Redis.WarmSchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	// Warm immediately instead of waiting for the first tick.
	_, _ = s.RunOnce(ctx)

	<-ctx.Done()
	log.Info().Msg("stopping scheduler")
	s.Stop()
}
