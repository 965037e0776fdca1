package main

import (
	"innkeep/config"
	"innkeep/di"
	"innkeep/helper"
	"innkeep/shared/logger"
	"innkeep/shared/timezone"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Str("timezone", timezone.GetLocation().String()).
		Msg("Booting service")

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	di.InitializeService().Serve()
}
