package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"innkeep/infras/otel"
	"innkeep/internal/domains/claim/model"
	"innkeep/internal/domains/claim/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomRepository "innkeep/internal/domains/room/repository"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Checker answers whether a room is free over an interval. It never writes; callers bind
// the room afterwards through the lifecycle store. A nil tx reads outside any transaction.
type Checker interface {
	IsRoomAvailable(ctx context.Context, tx *sqlx.Tx, roomID string, interval model.Interval, excludeClaimID string) (bool, error)
	FirstFit(ctx context.Context, tx *sqlx.Tx, roomType string, interval model.Interval, statuses ...string) (roomModel.Room, error)
	AvailableRooms(ctx context.Context, roomType string, interval model.Interval) ([]roomModel.Room, error)
}

type serviceImpl struct {
	repo     repository.Claim
	roomRepo roomRepository.Room
	otel     otel.Otel
}

func New(repo repository.Claim, roomRepo roomRepository.Room, otel otel.Otel) Checker {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		otel:     otel,
	}
}

func overlapFilter(roomID string, interval model.Interval, excludeClaimID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq},
		gDto.Filter{Field: model.FieldEndsAt, ArgName: constant.RequestParamCheckIn, Value: interval.Start, Operator: gDto.FilterOperatorGreater},
		gDto.Filter{Field: model.FieldStartsAt, ArgName: constant.RequestParamCheckOut, Value: interval.End, Operator: gDto.FilterOperatorLess},
	}

	if excludeClaimID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldClaimID, ArgName: "exclude_claim_id", Value: excludeClaimID, Operator: gDto.FilterOperatorNotEq})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

func (s *serviceImpl) IsRoomAvailable(ctx context.Context, tx *sqlx.Tx, roomID string, interval model.Interval, excludeClaimID string) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsRoomAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := overlapFilter(roomID, interval, excludeClaimID)

	var overlapping bool
	if tx == nil {
		overlapping, err = s.repo.Exist(ctx, filter)
	} else {
		overlapping, err = s.repo.ExistTx(ctx, tx, filter)
	}

	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check room claims")

		return false, fmt.Errorf("failed to check room claims: %w", err)
	}

	return !overlapping, nil
}

// FirstFit walks rooms of the type in creation order and returns the first free one.
// A zero Room means none fits.
func (s *serviceImpl) FirstFit(ctx context.Context, tx *sqlx.Tx, roomType string, interval model.Interval, statuses ...string) (res roomModel.Room, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FirstFit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rooms, err := s.candidates(ctx, tx, roomType, statuses...)
	if err != nil {
		return res, err
	}

	for _, room := range rooms {
		available, err := s.IsRoomAvailable(ctx, tx, room.ID, interval, constant.Empty)
		if err != nil {
			return res, err
		}

		if available {
			return room, nil
		}
	}

	return res, nil
}

func (s *serviceImpl) AvailableRooms(ctx context.Context, roomType string, interval model.Interval) (res []roomModel.Room, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rooms, err := s.candidates(ctx, nil, roomType, roomModel.StatusAvailable, roomModel.StatusReserved, roomModel.StatusOccupied)
	if err != nil {
		return nil, err
	}

	res = []roomModel.Room{}

	for _, room := range rooms {
		available, err := s.IsRoomAvailable(ctx, nil, room.ID, interval, constant.Empty)
		if err != nil {
			return nil, err
		}

		if available {
			res = append(res, room)
		}
	}

	return res, nil
}

func (s *serviceImpl) candidates(ctx context.Context, tx *sqlx.Tx, roomType string, statuses ...string) ([]roomModel.Room, error) {
	filters := []any{
		gDto.Filter{Field: roomModel.FieldRoomType, Value: roomType, Operator: gDto.FilterOperatorEq, Table: roomModel.TableName},
	}

	if len(statuses) > 0 {
		filters = append(filters, gDto.Filter{Field: roomModel.FieldStatus, Value: statuses, Operator: gDto.FilterOperatorIn, Table: roomModel.TableName})
	}

	filter := gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
	params := gDto.QueryParams{
		SortBy:  fmt.Sprintf("%s.%s ASC, %s.%s", roomModel.TableName, roomModel.FieldCreatedAt, roomModel.TableName, roomModel.FieldID),
		SortDir: gDto.SortDirAsc,
	}

	var (
		rooms []roomModel.Room
		err   error
	)

	if tx == nil {
		rooms, err = s.roomRepo.GetAll(ctx, params, filter)
	} else {
		rooms, err = s.roomRepo.GetAllTx(ctx, tx, params, filter)
	}

	if err != nil {
		log.Error().Err(err).Str("room_type", roomType).Msg("failed to list rooms by type")

		return nil, fmt.Errorf("failed to list rooms by type: %w", err)
	}

	return rooms, nil
}
