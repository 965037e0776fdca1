package service

import (
	"context"
	"errors"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	claimModel "innkeep/internal/domains/claim/model"
	claimService "innkeep/internal/domains/claim/service"
	"innkeep/internal/domains/room/model"
	"innkeep/internal/domains/room/model/dto"
	"innkeep/internal/domains/room/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	gRepo "innkeep/shared/repository"
	"innkeep/shared/timezone"
	"innkeep/shared/transaction"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

var errDuplicateRoomNumber = failure.Conflict("room number already exists")

var sortableFields = []string{
	model.FieldRoomNumber,
	model.FieldRoomType,
	model.FieldPricePerDay,
	model.FieldStatus,
	model.FieldCreatedAt,
}

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (dto.RoomResponse, error)
	SetMaintenance(ctx context.Context, id string, maintenance bool) (dto.RoomResponse, error)
	Available(ctx context.Context, req dto.AvailableRoomsRequest) ([]dto.RoomResponse, error)
}

type serviceImpl struct {
	repo      repository.Room
	lifecycle Lifecycle
	checker   claimService.Checker
	txManager transaction.Manager
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	group     singleflight.Group
}

func New(
	repo repository.Room,
	lifecycle Lifecycle,
	checker claimService.Checker,
	txManager transaction.Manager,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:      repo,
		lifecycle: lifecycle,
		checker:   checker,
		txManager: txManager,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) roomNumberTaken(ctx context.Context, roomNumber, exceptID string) (bool, error) {
	filters := []any{
		gDto.Filter{Field: model.FieldRoomNumber, Value: roomNumber, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if exceptID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldID, Value: exceptID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName})
	}

	exist, err := s.repo.Exist(ctx, gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd})
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number")

		return false, fmt.Errorf("failed to check room number: %w", err)
	}

	return exist, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	taken, err := s.roomNumberTaken(ctx, req.RoomNumber, constant.Empty)
	if err != nil {
		return res, err
	}

	if taken {
		return res, errDuplicateRoomNumber
	}

	room := req.ToModel(user)

	if err = s.repo.Insert(ctx, room); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, errDuplicateRoomNumber
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	res.FromModel(room)

	go s.lifecycle.Evict(context.WithoutCancel(ctx))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sortable(model.TableName, sortableFields...)

	return cache.ReadThrough(ctx, s.cache, &s.group, shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (page dto.GetRoomsResponse, err error) {
			total, err := s.Count(ctx, req, filter)
			if err != nil {
				return page, err
			}

			models, err := s.repo.GetAll(ctx, req, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get rooms")

				return page, fmt.Errorf("failed to get rooms: %w", err)
			}

			page.FromModels(models, total, req.Limit)

			return page, nil
		})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.ReadThrough(ctx, s.cache, &s.group, shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (int, error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count rooms")

				return 0, fmt.Errorf("failed to count rooms: %w", err)
			}

			return total, nil
		})
}

// Get collapses concurrent misses for the same room into one database read.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.ReadThrough(ctx, s.cache, &s.group, shared.BuildCacheKey(cacheGetRoom, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (found dto.RoomResponse, err error) {
			room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get room")

				return found, fmt.Errorf("failed to get room: %w", err)
			}

			if room.ID == constant.Empty {
				return found, failure.NotFound("room not found") // nolint:wrapcheck
			}

			found.FromModel(room)

			return found, nil
		})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if req.RoomNumber != constant.Empty {
		taken, err := s.roomNumberTaken(ctx, req.RoomNumber, id)
		if err != nil {
			return res, err
		}

		if taken {
			return res, errDuplicateRoomNumber
		}
	}

	affected, err := s.repo.Update(ctx, req.ToFields(user), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, errDuplicateRoomNumber
		}

		log.Error().Err(err).Msg("failed to update room")

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	if affected == 0 {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, id)

	return s.Get(ctx, id)
}

// SetMaintenance toggles between AVAILABLE and MAINTENANCE. Rooms held by a claim cannot
// be taken out of service.
func (s *serviceImpl) SetMaintenance(ctx context.Context, id string, maintenance bool) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetMaintenance")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	from, to := model.StatusAvailable, model.StatusMaintenance
	if !maintenance {
		from, to = model.StatusMaintenance, model.StatusAvailable
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		room, err := s.lifecycle.Lookup(ctx, tx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if room.Status == to {
			return nil
		}

		if room.Status != from {
			return failure.InvalidState(model.EntityName, room.Status) // nolint:wrapcheck
		}

		return s.lifecycle.Transition(ctx, tx, id, from, to) //nolint:wrapcheck
	})
	if err != nil {
		var fail *failure.Failure
		if !errors.As(err, &fail) {
			log.Error().Err(err).Msg("failed to toggle room maintenance")
		}

		return res, err //nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, id)

	return s.Get(ctx, id)
}

func (s *serviceImpl) Available(ctx context.Context, req dto.AvailableRoomsRequest) (res []dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Available")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, err := timezone.ParseDate(req.CheckIn)
	if err != nil {
		return nil, failure.BadRequest(err) // nolint:wrapcheck
	}

	checkOut, err := timezone.ParseDate(req.CheckOut)
	if err != nil {
		return nil, failure.BadRequest(err) // nolint:wrapcheck
	}

	interval := claimModel.NewInterval(checkIn, checkOut)
	if !interval.Valid() {
		return nil, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	rooms, err := s.checker.AvailableRooms(ctx, req.RoomType, interval)
	if err != nil {
		log.Error().Err(err).Msg("failed to list available rooms")

		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}

	res = make([]dto.RoomResponse, len(rooms))
	for i, room := range rooms {
		res[i].FromModel(room)
	}

	return res, nil
}
