package logger

import (
	"io"
	"os"
	"time"

	"innkeep/config"
	"innkeep/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// InitLogger sets up a human readable logger at trace level. SetLogLevel refines it once config is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// ErrorWithStack logs err with the stack of the caller under the "stack" field.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Msg("unexpected error")
}

func defaultLevel(env string) zerolog.Level {
	if env == constant.ServerEnvProduction {
		return zerolog.InfoLevel
	}

	return zerolog.TraceLevel
}

// Output picks JSON lines in production so log shippers can parse them, console text elsewhere.
func Output(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.Server.Env == constant.ServerEnvProduction {
		return zerolog.New(out).With().Timestamp().
			Str("service", cfg.App.Name).
			Str("env", cfg.Server.Env).
			Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

func SetLogLevel(cfg *config.Config) {
	log.Logger = Output(cfg, os.Stdout)

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = defaultLevel(cfg.Server.Env)
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
