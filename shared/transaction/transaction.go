package transaction

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const defaultTimeoutSeconds = 10

type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// Manager runs a unit of work inside one write transaction. The transaction commits only
// when fn returns nil; any error or panic rolls it back.
type Manager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type manager struct {
	db      *postgres.Connection
	otel    otel.Otel
	timeout time.Duration
}

func NewManager(cfg *config.Config, db *postgres.Connection, otl otel.Otel) Manager {
	timeout := cfg.DB.Postgres.TxTimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return &manager{
		db:      db,
		otel:    otl,
		timeout: time.Duration(timeout) * time.Second,
	}
}

func (m *manager) WithinTx(ctx context.Context, fn TxFunc) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".WithinTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tx, err := m.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to begin transaction")

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false

	defer func() {
		if committed {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn().Err(rbErr).Msg("failed to rollback transaction")
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit transaction")

		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	committed = true

	return nil
}
