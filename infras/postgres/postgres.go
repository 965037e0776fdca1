package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"innkeep/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Connection splits reads from writes. Claim checks inside a transaction always go through
// Write so they see the rows they are about to lock.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// endpoint is one side of the read/write split.
type endpoint struct {
	role     string
	host     string
	port     string
	user     string
	password string
	name     string
	sslMode  string
	timezone string
}

func New(cfg *config.Config) *Connection {
	read, write := endpoints(cfg)

	return &Connection{
		Read:  connect(read, cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime),
		Write: connect(write, cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime),
	}
}

func endpoints(cfg *config.Config) (endpoint, endpoint) {
	pg := cfg.DB.Postgres

	read := endpoint{
		role:     "read",
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		user:     pg.Read.Username,
		password: pg.Read.Password,
		name:     pg.Prefix + pg.Read.Name,
		sslMode:  pg.Read.SSLMode,
		timezone: pg.Read.Timezone,
	}

	write := endpoint{
		role:     "write",
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		user:     pg.Write.Username,
		password: pg.Write.Password,
		name:     pg.Prefix + pg.Write.Name,
		sslMode:  pg.Write.SSLMode,
		timezone: pg.Write.Timezone,
	}

	return read, write
}

// dsn escapes credentials, so passwords may contain URL metacharacters.
func (e endpoint) dsn() string {
	query := url.Values{}
	if e.sslMode != "" {
		query.Set("sslmode", e.sslMode)
	}

	// lib/pq forwards unknown keys as session parameters.
	if e.timezone != "" {
		query.Set("timezone", e.timezone)
	}

	descriptor := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.user, e.password),
		Host:     net.JoinHostPort(e.host, e.port),
		Path:     e.name,
		RawQuery: query.Encode(),
	}

	return descriptor.String()
}

func connect(e endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	logCtx := log.With().
		Str("role", e.role).
		Str("host", e.host).
		Str("port", e.port).
		Str("dbName", e.name).
		Logger()

	for attempt := 1; attempt <= maxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", e.dsn())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logCtx.Info().Msg("Connected to database")

			return db
		}

		logCtx.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logCtx.Fatal().Int("attempts", maxRetry).Msg("Giving up connecting to database")

	return nil
}
