package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/claim/model"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Claim reads the merged allocation ledger. It is a view, so it is never written.
type Claim interface {
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Claim]
}

func New(db *postgres.Connection, otel otel.Otel) Claim {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Claim](model.EntityName, model.TableName, model.FieldClaimID, db, otel),
	}
}
