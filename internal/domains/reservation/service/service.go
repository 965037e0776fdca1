package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/infras/otel"
	claimService "innkeep/internal/domains/claim/service"
	"innkeep/internal/domains/payment"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/model/dto"
	"innkeep/internal/domains/reservation/repository"
	roomModel "innkeep/internal/domains/room/model"
	roomService "innkeep/internal/domains/room/service"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/metrics"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"
	"innkeep/shared/transaction"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{
	model.FieldCheckInDate,
	model.FieldCheckOutDate,
	model.FieldStatus,
	model.FieldPaymentStatus,
	constant.FieldCreatedAt,
}

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	AssignRoom(ctx context.Context, id string, req dto.AssignRoomRequest) (dto.ReservationResponse, error)
	RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (dto.ReservationResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Outstanding(ctx context.Context) ([]dto.ReservationResponse, error)
	Upcoming(ctx context.Context) ([]dto.ReservationResponse, error)
	Arrivals(ctx context.Context) ([]dto.ReservationResponse, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	lifecycle roomService.Lifecycle
	checker   claimService.Checker
	txManager transaction.Manager
	publisher events.Publisher
	otel      otel.Otel
}

func New(
	repo repository.Reservation,
	lifecycle roomService.Lifecycle,
	checker claimService.Checker,
	txManager transaction.Manager,
	publisher events.Publisher,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		lifecycle: lifecycle,
		checker:   checker,
		txManager: txManager,
		publisher: publisher,
		otel:      otel,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

// lock reads the reservation with a row lock so transitions of the same reservation serialize.
func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.Reservation, error) {
	reservation, err := s.repo.GetForUpdateTx(ctx, tx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to lock reservation")

		return reservation, fmt.Errorf("failed to lock reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) update(ctx context.Context, tx *sqlx.Tx, id string, fields map[string]any) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err := s.repo.UpdateTx(ctx, tx, shared.Stamp(fields, user), byID(id)); err != nil {
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	return nil
}

func logUnexpected(err error, msg string) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		log.Error().Err(err).Msg(msg)
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("reservation.create", time.Now())

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, err := timezone.ParseDate(req.CheckInDate)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	checkOut, err := timezone.ParseDate(req.CheckOutDate)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	nights := model.Nights(checkIn, checkOut)
	if nights <= 0 {
		return res, failure.BadRequestFromString("check_out_date must be after check_in_date") // nolint:wrapcheck
	}

	reservation := model.Reservation{
		ID:            uuid.NewString(),
		ClientName:    req.ClientName,
		PhoneNumber:   req.PhoneNumber,
		RoomType:      req.RoomType,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		NumberOfDays:  nights,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: dto.PaymentMethodOrDefault(req.PaymentMethod),
		AttendantID:   user,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}

	if req.Email != constant.Empty {
		reservation.Email = &req.Email
	}

	if req.Notes != constant.Empty {
		reservation.Notes = &req.Notes
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		room, err := s.pickRoom(ctx, tx, req.RoomID, req.RoomType, reservation)
		if err != nil {
			return err
		}

		if req.RoomID != constant.Empty {
			reservation.RoomID = &room.ID
		}

		price := room.PricePerDay
		if req.PricePerDay.Valid {
			price = req.PricePerDay.Decimal
		}

		reservation.PricePerDay = price
		reservation.TotalAmount = payment.Total(nights, price)
		reservation.BalanceDue = payment.Balance(reservation.TotalAmount, reservation.AmountPaid)
		reservation.PaymentStatus = payment.Derive(reservation.TotalAmount, reservation.AmountPaid, reservation.PaymentMethod)

		reservation.Status = model.StatusPending
		if reservation.AmountPaid.IsPositive() {
			reservation.Status = model.StatusConfirmed
		}

		if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
			log.Error().Err(err).Msg("failed to create reservation")

			return fmt.Errorf("failed to create reservation: %w", err)
		}

		return nil
	})
	if err != nil {
		logUnexpected(err, "failed to create reservation")

		return res, err //nolint:wrapcheck
	}

	roomID := reservation.BoundRoom()

	s.lifecycle.Evict(ctx, roomID)
	metrics.Transition(metrics.ClaimReservation, "created")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.ReservationCreated, reservation.ID, roomID, map[string]any{
		"status":         reservation.Status,
		"payment_status": reservation.PaymentStatus,
	}))

	return s.Get(ctx, reservation.ID)
}

// pickRoom binds the requested room, or checks that some room of the type is free when none
// is requested. Only a requested room is bound; the reservation otherwise stays unassigned.
func (s *serviceImpl) pickRoom(ctx context.Context, tx *sqlx.Tx, roomID, roomType string, reservation model.Reservation) (roomModel.Room, error) {
	interval := reservation.Interval()

	if roomID == constant.Empty {
		room, err := s.checker.FirstFit(ctx, tx, roomType, interval, roomModel.StatusAvailable, roomModel.StatusReserved, roomModel.StatusOccupied)
		if err != nil {
			return room, err //nolint:wrapcheck
		}

		if room.ID == constant.Empty {
			return room, failure.Conflict(fmt.Sprintf("no %s rooms available for the selected dates", roomType)) // nolint:wrapcheck
		}

		return room, nil
	}

	return s.bindRoom(ctx, tx, roomID, reservation)
}

// bindRoom checks the room against the reservation and moves it AVAILABLE -> RESERVED.
func (s *serviceImpl) bindRoom(ctx context.Context, tx *sqlx.Tx, roomID string, reservation model.Reservation) (roomModel.Room, error) {
	room, err := s.lifecycle.Lookup(ctx, tx, roomID)
	if err != nil {
		return room, err //nolint:wrapcheck
	}

	if room.RoomType != reservation.RoomType {
		return room, failure.Conflict("room type does not match the reservation") // nolint:wrapcheck
	}

	available, err := s.checker.IsRoomAvailable(ctx, tx, roomID, reservation.Interval(), reservation.ID)
	if err != nil {
		return room, err //nolint:wrapcheck
	}

	if !available {
		return room, failure.Conflict("room is not available for the selected dates") // nolint:wrapcheck
	}

	if err = s.lifecycle.Transition(ctx, tx, roomID, roomModel.StatusAvailable, roomModel.StatusReserved); err != nil {
		return room, err //nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) AssignRoom(ctx context.Context, id string, req dto.AssignRoomRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.AssignRoom")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("reservation.assign_room", time.Now())

	var previous string

	changed := false

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Active() {
			return failure.InvalidState(model.EntityName, reservation.Status) // nolint:wrapcheck
		}

		previous = reservation.BoundRoom()
		if previous == req.RoomID {
			return nil
		}

		// Release first so the new room is never bound while the old one is still held.
		if previous != constant.Empty {
			if err := s.lifecycle.Transition(ctx, tx, previous, roomModel.StatusReserved, roomModel.StatusAvailable); err != nil {
				return err //nolint:wrapcheck
			}
		}

		if _, err := s.bindRoom(ctx, tx, req.RoomID, reservation); err != nil {
			return err
		}

		changed = true

		return s.update(ctx, tx, id, map[string]any{model.FieldRoomID: req.RoomID})
	})
	if err != nil {
		logUnexpected(err, "failed to assign room")

		return res, err //nolint:wrapcheck
	}

	if changed {
		s.lifecycle.Evict(ctx, previous, req.RoomID)
		metrics.Transition(metrics.ClaimReservation, "room_assigned")
		events.Dispatch(ctx, s.publisher, events.New(ctx, events.ReservationRoomAssigned, id, req.RoomID, map[string]any{
			"previous_room_id": previous,
		}))
	}

	return s.Get(ctx, id)
}

func (s *serviceImpl) RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.RecordPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("reservation.record_payment", time.Now())

	if !req.Amount.IsPositive() {
		return res, failure.BadRequestFromString("amount must be greater than 0") // nolint:wrapcheck
	}

	var (
		roomID     string
		settlement payment.Settlement
	)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Active() {
			return failure.InvalidState(model.EntityName, reservation.Status) // nolint:wrapcheck
		}

		roomID = reservation.BoundRoom()
		settlement = payment.Settle(reservation.TotalAmount, reservation.AmountPaid, req.Amount, reservation.PaymentMethod, req.PaymentMethod)

		status := reservation.Status
		if status == model.StatusPending && settlement.Paid.IsPositive() {
			status = model.StatusConfirmed
		}

		return s.update(ctx, tx, id, map[string]any{
			model.FieldAmountPaid:    settlement.Paid,
			model.FieldBalanceDue:    payment.Balance(reservation.TotalAmount, settlement.Paid),
			model.FieldPaymentMethod: settlement.Method,
			model.FieldPaymentStatus: settlement.Status,
			model.FieldStatus:        status,
		})
	})
	if err != nil {
		logUnexpected(err, "failed to record reservation payment")

		return res, err //nolint:wrapcheck
	}

	metrics.Transition(metrics.ClaimReservation, "payment_recorded")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.ReservationPaymentRecorded, id, roomID, map[string]any{
		"amount":         req.Amount.String(),
		"amount_paid":    settlement.Paid.String(),
		"payment_status": settlement.Status,
	}))

	return s.Get(ctx, id)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("reservation.cancel", time.Now())

	var roomID string

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Active() {
			return failure.InvalidState(model.EntityName, reservation.Status) // nolint:wrapcheck
		}

		roomID = reservation.BoundRoom()
		if roomID != constant.Empty {
			if err := s.lifecycle.Transition(ctx, tx, roomID, roomModel.StatusReserved, roomModel.StatusAvailable); err != nil {
				return err //nolint:wrapcheck
			}
		}

		fields := map[string]any{model.FieldStatus: model.StatusCancelled}
		if req.Reason != constant.Empty {
			fields[model.FieldNotes] = shared.AppendNote(reservation.Notes, "Cancelled: "+req.Reason)
		}

		return s.update(ctx, tx, id, fields)
	})
	if err != nil {
		logUnexpected(err, "failed to cancel reservation")

		return res, err //nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, roomID)
	metrics.Transition(metrics.ClaimReservation, "cancelled")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.ReservationCancelled, id, roomID, map[string]any{
		"reason": req.Reason,
	}))

	return s.Get(ctx, id)
}

// UpdateStatus is an administrative override. It never touches the room.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var previous model.Reservation

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		reservation, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		previous = reservation

		return s.update(ctx, tx, id, map[string]any{model.FieldStatus: req.Status})
	})
	if err != nil {
		logUnexpected(err, "failed to update reservation status")

		return res, err //nolint:wrapcheck
	}

	metrics.Transition(metrics.ClaimReservation, "status_updated")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.ReservationStatusUpdated, id, previous.BoundRoom(), map[string]any{
		"from": previous.Status,
		"to":   req.Status,
	}))

	return s.Get(ctx, id)
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reservation, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if params.SortBy == constant.Empty {
		params.SortBy, params.SortDir = model.FieldCheckInDate, gDto.SortDirAsc
	}

	params.Sortable(model.TableName, sortableFields...)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	reservations, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(reservations, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, filters ...any) ([]dto.ReservationResponse, error) {
	filters = append(filters, gDto.Filter{
		Field:    model.FieldStatus,
		Value:    []string{model.StatusPending, model.StatusConfirmed},
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	})

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldCheckInDate, SortDir: gDto.SortDirAsc}

	reservations, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd})
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations")

		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return dto.FromModels(reservations), nil
}

// Outstanding lists live reservations that still owe money.
func (s *serviceImpl) Outstanding(ctx context.Context) (res []dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Outstanding")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, gDto.Filter{
		Field:    model.FieldPaymentStatus,
		Value:    []string{payment.StatusUnpaid, payment.StatusPartial},
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	})
}

// Upcoming lists live reservations arriving today or later.
func (s *serviceImpl) Upcoming(ctx context.Context) (res []dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Upcoming")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, gDto.Filter{
		Field:    model.FieldCheckInDate,
		ArgName:  "from_date",
		Value:    timezone.StartOfDay(timezone.Now()),
		Operator: gDto.FilterOperatorGreaterEq,
		Table:    model.TableName,
	})
}

// Arrivals lists live reservations whose check-in falls on the current day.
func (s *serviceImpl) Arrivals(ctx context.Context) (res []dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Arrivals")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := timezone.StartOfDay(timezone.Now())

	return s.list(ctx,
		gDto.Filter{Field: model.FieldCheckInDate, ArgName: "from_date", Value: today, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldCheckInDate, ArgName: "to_date", Value: today.AddDate(0, 0, 1), Operator: gDto.FilterOperatorLess, Table: model.TableName},
	)
}
