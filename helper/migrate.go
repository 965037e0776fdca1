package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"innkeep/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionStepUp Action = "step-up"
	ActionDrop   Action = "drop"
)

var actions = map[Action]func(*migrate.Migrate) error{
	ActionUp:     func(m *migrate.Migrate) error { return m.Up() },
	ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	ActionDrop:   func(m *migrate.Migrate) error { return m.Down() },
}

func databaseURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)
	query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     cfg.DB.Postgres.Prefix + write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Runner applies one migration action against the write database. ErrNoChange is not an error.
func Runner(cfg *config.Config, action Action) error {
	run, ok := actions[action]
	if !ok {
		return fmt.Errorf("unknown migration action %q", action)
	}

	mig, err := migrate.New(migrationsSource, databaseURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", string(action)).Uint("version", version).Bool("dirty", dirty).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
