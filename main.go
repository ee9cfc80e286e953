package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"foodgram/internal/app"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "json")
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	media, err := app.OpenMedia(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise media storage")
	}

	publisher, closeEvents, err := app.OpenEvents(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise RabbitMQ")
	}
	defer func() {
		if err := closeEvents(); err != nil {
			log.Error().Err(err).Msg("error closing RabbitMQ")
		}
	}()

	server := app.New(app.Deps{
		Config:    cfg,
		DB:        db,
		Media:     media,
		Publisher: publisher,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	cancel()

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during fiber shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server gracefully stopped")
}
