//go:build wireinject
// +build wireinject

package di

import (
	"innkeep/config"
	"innkeep/infras/jwt"
	"innkeep/infras/kafka"
	"innkeep/infras/otel"
	"innkeep/infras/postgres"
	"innkeep/infras/rabbitmq"
	"innkeep/infras/redis"
	"innkeep/infras/s3"
	authService "innkeep/internal/domains/auth/service"
	checkInRepository "innkeep/internal/domains/checkin/repository"
	checkInService "innkeep/internal/domains/checkin/service"
	claimRepository "innkeep/internal/domains/claim/repository"
	claimService "innkeep/internal/domains/claim/service"
	conversionService "innkeep/internal/domains/conversion/service"
	reservationRepository "innkeep/internal/domains/reservation/repository"
	reservationService "innkeep/internal/domains/reservation/service"
	roomRepository "innkeep/internal/domains/room/repository"
	roomService "innkeep/internal/domains/room/service"
	userRepository "innkeep/internal/domains/user/repository"
	userService "innkeep/internal/domains/user/service"
	"innkeep/internal/events"
	authHandler "innkeep/internal/handlers/auth"
	checkInHandler "innkeep/internal/handlers/checkin"
	reservationHandler "innkeep/internal/handlers/reservation"
	roomHandler "innkeep/internal/handlers/room"
	userHandler "innkeep/internal/handlers/user"
	"innkeep/permissions"
	"innkeep/shared/cache"
	"innkeep/shared/transaction"
	"innkeep/transport/http"
	"innkeep/transport/http/middleware"
	"innkeep/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	rabbitmq.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	transaction.NewManager,
	events.NewPublisher,
)

var authDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.NewLifecycle,
	roomService.New,
)

var claimDomain = wire.NewSet(
	claimRepository.New,
	claimService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var checkInDomain = wire.NewSet(
	checkInRepository.New,
	checkInService.New,
	conversionService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	claimDomain,
	reservationDomain,
	checkInDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	reservationHandler.New,
	checkInHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
