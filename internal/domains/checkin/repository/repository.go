package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/checkin/model"
	gDto "innkeep/shared/dto"
	gRepo "innkeep/shared/repository"

	"github.com/jmoiron/sqlx"
)

type CheckIn interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.CheckIn) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.CheckIn, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.CheckIn, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.CheckIn, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.CheckIn]
}

func New(db *postgres.Connection, otel otel.Otel) CheckIn {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.CheckIn](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
