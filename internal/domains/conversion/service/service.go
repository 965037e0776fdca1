package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/infras/otel"
	checkInModel "innkeep/internal/domains/checkin/model"
	checkInDto "innkeep/internal/domains/checkin/model/dto"
	checkInRepository "innkeep/internal/domains/checkin/repository"
	claimService "innkeep/internal/domains/claim/service"
	reservationModel "innkeep/internal/domains/reservation/model"
	reservationRepository "innkeep/internal/domains/reservation/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomService "innkeep/internal/domains/room/service"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/failure"
	"innkeep/shared/metrics"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
	"innkeep/shared/transaction"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Conversion turns a reservation into an in-house stay.
type Conversion interface {
	Convert(ctx context.Context, reservationID string) (checkInDto.CheckInResponse, error)
}

type serviceImpl struct {
	reservationRepo reservationRepository.Reservation
	checkInRepo     checkInRepository.CheckIn
	lifecycle       roomService.Lifecycle
	checker         claimService.Checker
	txManager       transaction.Manager
	publisher       events.Publisher
	otel            otel.Otel
}

func New(
	reservationRepo reservationRepository.Reservation,
	checkInRepo checkInRepository.CheckIn,
	lifecycle roomService.Lifecycle,
	checker claimService.Checker,
	txManager transaction.Manager,
	publisher events.Publisher,
	otel otel.Otel,
) Conversion {
	return &serviceImpl{
		reservationRepo: reservationRepo,
		checkInRepo:     checkInRepo,
		lifecycle:       lifecycle,
		checker:         checker,
		txManager:       txManager,
		publisher:       publisher,
		otel:            otel,
	}
}

// occupy binds the room the guest will stay in. A reservation that already holds a room keeps it;
// otherwise the first free room of the type is taken.
func (s *serviceImpl) occupy(ctx context.Context, tx *sqlx.Tx, reservation reservationModel.Reservation) (roomModel.Room, error) {
	if roomID := reservation.BoundRoom(); roomID != constant.Empty {
		room, err := s.lifecycle.Lookup(ctx, tx, roomID)
		if err != nil {
			return room, err //nolint:wrapcheck
		}

		return room, s.lifecycle.Transition(ctx, tx, roomID, roomModel.StatusReserved, roomModel.StatusOccupied) //nolint:wrapcheck
	}

	room, err := s.checker.FirstFit(ctx, tx, reservation.RoomType, reservation.Interval(), roomModel.StatusAvailable)
	if err != nil {
		return room, err //nolint:wrapcheck
	}

	if room.ID == constant.Empty {
		metrics.BindConflict("reservation.convert")

		return room, failure.Conflict("no " + reservation.RoomType + " room is available") // nolint:wrapcheck
	}

	return room, s.lifecycle.Transition(ctx, tx, room.ID, roomModel.StatusAvailable, roomModel.StatusOccupied) //nolint:wrapcheck
}

func (s *serviceImpl) Convert(ctx context.Context, reservationID string) (res checkInDto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Conversion.Convert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("reservation.convert", time.Now())

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	byReservation := shared.FilterByID(reservationID, reservationModel.FieldID, reservationModel.TableName)

	var stay checkInModel.CheckIn

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.reservationRepo.GetForUpdateTx(ctx, tx, byReservation)
		if err != nil {
			log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to lock reservation")

			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if reservation.ID == constant.Empty {
			return failure.NotFound("reservation not found") // nolint:wrapcheck
		}

		if !reservation.Active() {
			return failure.InvalidState(reservationModel.EntityName, reservation.Status) // nolint:wrapcheck
		}

		room, err := s.occupy(ctx, tx, reservation)
		if err != nil {
			return err
		}

		now := timezone.Now()
		stay = checkInModel.CheckIn{
			ID:            uuid.NewString(),
			ClientName:    reservation.ClientName,
			PhoneNumber:   reservation.PhoneNumber,
			RoomID:        room.ID,
			RoomNumber:    room.RoomNumber,
			CheckInDate:   now,
			RoomPrice:     reservation.PricePerDay,
			AmountPaid:    reservation.AmountPaid,
			PaymentMethod: reservation.PaymentMethod,
			PaymentStatus: reservation.PaymentStatus,
			Status:        checkInModel.StatusCheckedIn,
			ReservationID: &reservation.ID,
			Notes:         reservation.Notes,
			AttendantID:   user,
			Metadata:      gModel.NewMetadata(user, now),
		}

		if err := s.checkInRepo.InsertTx(ctx, tx, stay); err != nil {
			log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to create check-in from reservation")

			return fmt.Errorf("failed to create check-in: %w", err)
		}

		fields := shared.Stamp(map[string]any{
			reservationModel.FieldStatus: reservationModel.StatusCheckedIn,
			reservationModel.FieldRoomID: room.ID,
		}, user)

		if _, err := s.reservationRepo.UpdateTx(ctx, tx, fields, byReservation); err != nil {
			log.Error().Err(err).Str("reservation_id", reservationID).Msg("failed to close reservation")

			return fmt.Errorf("failed to update reservation: %w", err)
		}

		return nil
	})
	if err != nil {
		var fail *failure.Failure
		if !errors.As(err, &fail) {
			log.Error().Err(err).Msg("failed to convert reservation")
		}

		return res, err //nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, stay.RoomID)
	metrics.Transition(metrics.ClaimReservation, "converted")
	metrics.Transition(metrics.ClaimCheckIn, "created")
	events.Dispatch(ctx, s.publisher,
		events.New(ctx, events.ReservationConverted, reservationID, stay.RoomID, map[string]any{"check_in_id": stay.ID}),
		events.New(ctx, events.CheckInCreated, stay.ID, stay.RoomID, map[string]any{
			"reservation_id": reservationID,
			"payment_status": stay.PaymentStatus,
		}),
	)

	created, err := s.checkInRepo.Get(ctx, shared.FilterByID(stay.ID, checkInModel.FieldID, checkInModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get check-in")

		return res, fmt.Errorf("failed to get check-in: %w", err)
	}

	res.FromModel(created)

	return res, nil
}
