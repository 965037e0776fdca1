package service

//go:generate go run go.uber.org/mock/mockgen -source=./lifecycle.go -destination=./mocks/lifecycle_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"innkeep/infras/otel"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Lifecycle is the only writer of room status. Transition is a compare-and-swap: it moves
// the room from one status to another only if it still holds the expected status, so two
// transactions racing for the same room cannot both bind it.
type Lifecycle interface {
	Lookup(ctx context.Context, tx *sqlx.Tx, roomID string) (model.Room, error)
	Transition(ctx context.Context, tx *sqlx.Tx, roomID, from, to string) error
	Evict(ctx context.Context, roomIDs ...string)
}

type lifecycleImpl struct {
	repo  repository.Room
	cache cache.RedisCache
	otel  otel.Otel
}

func NewLifecycle(repo repository.Room, cache cache.RedisCache, otel otel.Otel) Lifecycle {
	return &lifecycleImpl{
		repo:  repo,
		cache: cache,
		otel:  otel,
	}
}

func (l *lifecycleImpl) Lookup(ctx context.Context, tx *sqlx.Tx, roomID string) (res model.Room, err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Lookup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = l.repo.GetTx(ctx, tx, shared.FilterByID(roomID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if res.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return res, nil
}

func (l *lifecycleImpl) Transition(ctx context.Context, tx *sqlx.Tx, roomID, from, to string) (err error) {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"room.id": roomID, "room.from": from, "room.to": to})

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, ArgName: "expected_status", Value: from, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	affected, err := l.repo.UpdateTx(ctx, tx, shared.Stamp(map[string]any{model.FieldStatus: to}, user), filter)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to transition room")

		return fmt.Errorf("failed to transition room: %w", err)
	}

	if affected != 1 {
		metrics.BindConflict(strings.ToLower(from + "_to_" + to))
		log.Warn().Str("room_id", roomID).Str("from", from).Str("to", to).Msg("room is no longer in the expected status")

		return failure.Conflict("room is not " + from) // nolint:wrapcheck
	}

	return nil
}

// Evict drops cached views of the rooms. Call it after commit.
func (l *lifecycleImpl) Evict(ctx context.Context, roomIDs ...string) {
	for _, id := range roomIDs {
		if id == constant.Empty {
			continue
		}

		if err := l.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Str("room_id", id).Msg("failed to delete room from cache")
		}
	}

	shared.InvalidateCaches(ctx, l.cache, cacheGetAllRoom)
	shared.InvalidateCaches(ctx, l.cache, cacheCountRoom)
}
