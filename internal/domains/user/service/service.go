package service

import (
	"context"
	"fmt"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/internal/domains/user/model"
	"innkeep/internal/domains/user/model/dto"
	"innkeep/internal/domains/user/repository"
	"innkeep/shared"
	"innkeep/shared/cache"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
)

var sortableFields = []string{
	model.FieldEmail,
	model.FieldFullName,
	model.FieldRole,
	constant.FieldCreatedAt,
}

// User manages attendant accounts. Accounts are created through registration.
type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	group singleflight.Group
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Sortable(model.TableName, sortableFields...)

	return cache.ReadThrough(ctx, s.cache, &s.group, shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter), s.cfg.Cache.TTL,
		func(ctx context.Context) (page dto.GetUsersResponse, err error) {
			total, err := s.repo.Count(ctx, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to count users")

				return page, fmt.Errorf("failed to count users: %w", err)
			}

			models, err := s.repo.GetAll(ctx, req, filter)
			if err != nil {
				log.Error().Err(err).Msg("failed to get users")

				return page, fmt.Errorf("failed to get users: %w", err)
			}

			page.FromModels(models, total, req.Limit)

			return page, nil
		})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.ReadThrough(ctx, s.cache, &s.group, shared.BuildCacheKey(cacheGetUser, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (found dto.UserResponse, err error) {
			user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Msg("failed to get user")

				return found, fmt.Errorf("failed to get user: %w", err)
			}

			if user.ID == constant.Empty {
				return found, failure.NotFound("user not found") // nolint:wrapcheck
			}

			found.FromModel(user)

			return found, nil
		})
}

// Update changes an attendant's name, role or active flag. A deactivated attendant can no longer
// log in; the claims they handled keep referencing them.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if id == actor && req.Active != nil && !*req.Active {
		return failure.BadRequestFromString("cannot deactivate your own account") // nolint:wrapcheck
	}

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, actor), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
	}()

	return nil
}
