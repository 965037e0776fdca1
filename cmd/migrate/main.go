package main

import (
	"innkeep/config"
	"innkeep/helper"
	"innkeep/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations from migrations/postgres",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())
	},
}

func runner(action func(*config.Config) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		return action(config.Get())
	}
}

func init() {
	rootCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: runner(helper.Up)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", RunE: runner(helper.Down)},
		&cobra.Command{Use: "step-up", Short: "Apply the next pending migration", RunE: runner(helper.StepUp)},
		&cobra.Command{Use: "drop", Short: "Roll back every migration", RunE: runner(helper.Drop)},
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
