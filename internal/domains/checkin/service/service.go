package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"innkeep/infras/otel"
	"innkeep/infras/s3"
	"innkeep/internal/domains/checkin/model"
	"innkeep/internal/domains/checkin/model/dto"
	"innkeep/internal/domains/checkin/repository"
	claimModel "innkeep/internal/domains/claim/model"
	claimService "innkeep/internal/domains/claim/service"
	"innkeep/internal/domains/payment"
	reservationDto "innkeep/internal/domains/reservation/model/dto"
	roomModel "innkeep/internal/domains/room/model"
	roomService "innkeep/internal/domains/room/service"
	"innkeep/internal/events"
	"innkeep/shared"
	"innkeep/shared/background"
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

const folioDirectory = "folios"

var sortableFields = []string{
	model.FieldCheckInDate,
	model.FieldCheckOutDate,
	model.FieldStatus,
	model.FieldRoomNumber,
	constant.FieldCreatedAt,
}

type CheckIn interface {
	Create(ctx context.Context, req dto.CreateCheckInRequest) (dto.CheckInResponse, error)
	RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (dto.CheckInResponse, error)
	ChangeRoom(ctx context.Context, id string, req dto.ChangeRoomRequest) (dto.CheckInResponse, error)
	Checkout(ctx context.Context, id string, req dto.CheckoutRequest) (dto.CheckInResponse, error)
	Get(ctx context.Context, id string) (dto.CheckInResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCheckInsResponse, error)
	Current(ctx context.Context) ([]dto.CheckInResponse, error)
}

type serviceImpl struct {
	repo      repository.CheckIn
	lifecycle roomService.Lifecycle
	checker   claimService.Checker
	txManager transaction.Manager
	publisher events.Publisher
	storage   s3.S3
	otel      otel.Otel
}

func New(
	repo repository.CheckIn,
	lifecycle roomService.Lifecycle,
	checker claimService.Checker,
	txManager transaction.Manager,
	publisher events.Publisher,
	storage s3.S3,
	otel otel.Otel,
) CheckIn {
	return &serviceImpl{
		repo:      repo,
		lifecycle: lifecycle,
		checker:   checker,
		txManager: txManager,
		publisher: publisher,
		storage:   storage,
		otel:      otel,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func logUnexpected(err error, msg string) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		log.Error().Err(err).Msg(msg)
	}
}

// lock reads the stay with a row lock and rejects anything already checked out.
func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.CheckIn, error) {
	stay, err := s.repo.GetForUpdateTx(ctx, tx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("check_in_id", id).Msg("failed to lock check-in")

		return stay, fmt.Errorf("failed to lock check-in: %w", err)
	}

	if stay.ID == constant.Empty {
		return stay, failure.NotFound("check-in not found") // nolint:wrapcheck
	}

	if !stay.Active() {
		return stay, failure.InvalidState(model.EntityName, stay.Status) // nolint:wrapcheck
	}

	return stay, nil
}

func (s *serviceImpl) update(ctx context.Context, tx *sqlx.Tx, id string, fields map[string]any) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err := s.repo.UpdateTx(ctx, tx, shared.Stamp(fields, user), byID(id)); err != nil {
		log.Error().Err(err).Str("check_in_id", id).Msg("failed to update check-in")

		return fmt.Errorf("failed to update check-in: %w", err)
	}

	return nil
}

// occupy checks a room is free over interval and moves it AVAILABLE -> OCCUPIED.
func (s *serviceImpl) occupy(ctx context.Context, tx *sqlx.Tx, roomID string, interval claimModel.Interval, excludeClaimID string) (roomModel.Room, error) {
	room, err := s.lifecycle.Lookup(ctx, tx, roomID)
	if err != nil {
		return room, err //nolint:wrapcheck
	}

	if room.Status != roomModel.StatusAvailable {
		return room, failure.Conflict("room is not available") // nolint:wrapcheck
	}

	available, err := s.checker.IsRoomAvailable(ctx, tx, roomID, interval, excludeClaimID)
	if err != nil {
		return room, err //nolint:wrapcheck
	}

	if !available {
		return room, failure.Conflict("room is claimed for the requested dates") // nolint:wrapcheck
	}

	if err = s.lifecycle.Transition(ctx, tx, roomID, roomModel.StatusAvailable, roomModel.StatusOccupied); err != nil {
		return room, err //nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCheckInRequest) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("checkin.create", time.Now())

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn := timezone.Now()
	if req.CheckInDate != constant.Empty {
		if checkIn, err = timezone.ParseDate(req.CheckInDate); err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	stay := model.CheckIn{
		ID:            uuid.NewString(),
		ClientName:    req.ClientName,
		PhoneNumber:   req.PhoneNumber,
		RoomID:        req.RoomID,
		CheckInDate:   checkIn,
		AmountPaid:    req.AmountPaid,
		PaymentMethod: reservationDto.PaymentMethodOrDefault(req.PaymentMethod),
		Status:        model.StatusCheckedIn,
		AttendantID:   user,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}

	if req.CheckOutDate != constant.Empty {
		checkOut, err := timezone.ParseDate(req.CheckOutDate)
		if err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}

		stay.CheckOutDate = &checkOut
	}

	if !stay.Interval(timezone.Now()).Valid() {
		return res, failure.BadRequestFromString("check_out_date must be after check_in_date") // nolint:wrapcheck
	}

	if req.Notes != constant.Empty {
		stay.Notes = &req.Notes
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		room, err := s.occupy(ctx, tx, req.RoomID, stay.Interval(timezone.Now()), constant.Empty)
		if err != nil {
			return err
		}

		stay.RoomNumber = room.RoomNumber

		stay.RoomPrice = room.PricePerDay
		if req.RoomPrice.Valid {
			stay.RoomPrice = req.RoomPrice.Decimal
		}

		stay.PaymentStatus = payment.Derive(stay.AmountDue(), stay.AmountPaid, stay.PaymentMethod)

		if err := s.repo.InsertTx(ctx, tx, stay); err != nil {
			log.Error().Err(err).Msg("failed to create check-in")

			return fmt.Errorf("failed to create check-in: %w", err)
		}

		return nil
	})
	if err != nil {
		logUnexpected(err, "failed to create check-in")

		return res, err //nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, stay.RoomID)
	metrics.Transition(metrics.ClaimCheckIn, "created")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.CheckInCreated, stay.ID, stay.RoomID, map[string]any{
		"payment_status": stay.PaymentStatus,
	}))

	return s.Get(ctx, stay.ID)
}

func (s *serviceImpl) RecordPayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.RecordPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("checkin.record_payment", time.Now())

	if !req.Amount.IsPositive() {
		return res, failure.BadRequestFromString("amount must be greater than 0") // nolint:wrapcheck
	}

	var (
		roomID     string
		settlement payment.Settlement
	)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		stay, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		roomID = stay.RoomID
		settlement = payment.Settle(stay.AmountDue(), stay.AmountPaid, req.Amount, stay.PaymentMethod, req.PaymentMethod)

		return s.update(ctx, tx, id, map[string]any{
			model.FieldAmountPaid:    settlement.Paid,
			model.FieldPaymentMethod: settlement.Method,
			model.FieldPaymentStatus: settlement.Status,
		})
	})
	if err != nil {
		logUnexpected(err, "failed to record check-in payment")

		return res, err //nolint:wrapcheck
	}

	metrics.Transition(metrics.ClaimCheckIn, "payment_recorded")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.CheckInPaymentRecorded, id, roomID, map[string]any{
		"amount":         req.Amount.String(),
		"amount_paid":    settlement.Paid.String(),
		"payment_status": settlement.Status,
	}))

	return s.Get(ctx, id)
}

// ChangeRoom moves an active stay. The old room is released and the new one occupied in the
// same transaction, so a failure leaves the guest where they were.
func (s *serviceImpl) ChangeRoom(ctx context.Context, id string, req dto.ChangeRoomRequest) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.ChangeRoom")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("checkin.change_room", time.Now())

	var previous string

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		stay, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		previous = stay.RoomID

		if previous == req.RoomID {
			return failure.Conflict("guest already occupies this room") // nolint:wrapcheck
		}

		now := timezone.Now()

		room, err := s.occupy(ctx, tx, req.RoomID, claimModel.StayInterval(now, stay.CheckOutDate, now), id)
		if err != nil {
			return err
		}

		if err := s.lifecycle.Transition(ctx, tx, previous, roomModel.StatusOccupied, roomModel.StatusAvailable); err != nil {
			return err //nolint:wrapcheck
		}

		price := room.PricePerDay
		if req.RoomPrice.Valid {
			price = req.RoomPrice.Decimal
		}

		fields := map[string]any{
			model.FieldRoomID:     room.ID,
			model.FieldRoomNumber: room.RoomNumber,
			model.FieldRoomPrice:  price,
		}

		if req.Reason != constant.Empty {
			line := fmt.Sprintf("Room changed from %s to %s: %s", stay.RoomNumber, room.RoomNumber, req.Reason)
			fields[model.FieldNotes] = shared.AppendNote(stay.Notes, line)
		}

		return s.update(ctx, tx, id, fields)
	})
	if err != nil {
		logUnexpected(err, "failed to change room")

		return res, err //nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, previous, req.RoomID)
	metrics.Transition(metrics.ClaimCheckIn, "room_changed")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.CheckInRoomChanged, id, req.RoomID, map[string]any{
		"previous_room_id": previous,
		"reason":           req.Reason,
	}))

	return s.Get(ctx, id)
}

func (s *serviceImpl) Checkout(ctx context.Context, id string, req dto.CheckoutRequest) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.Checkout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer metrics.Observe("checkin.checkout", time.Now())

	checkOut := timezone.Now()
	if req.CheckOutDate != constant.Empty {
		if checkOut, err = timezone.ParseDate(req.CheckOutDate); err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	var (
		roomID string
		folio  dto.Folio
	)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		stay, err := s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		roomID = stay.RoomID

		if checkOut.Before(stay.CheckInDate) {
			return failure.BadRequestFromString("check_out_date must not be before check_in_date") // nolint:wrapcheck
		}

		days := model.StayDays(stay.CheckInDate, checkOut)
		total := payment.Total(days, stay.RoomPrice)

		settlement := payment.Settle(total, stay.AmountPaid, req.Amount.Decimal, stay.PaymentMethod, req.PaymentMethod)

		if err := s.update(ctx, tx, id, map[string]any{
			model.FieldCheckOutDate:  checkOut,
			model.FieldDaysStayed:    days,
			model.FieldTotalAmount:   total,
			model.FieldAmountPaid:    settlement.Paid,
			model.FieldPaymentMethod: settlement.Method,
			model.FieldPaymentStatus: settlement.Status,
			model.FieldStatus:        model.StatusCheckedOut,
		}); err != nil {
			return err
		}

		if err := s.lifecycle.Transition(ctx, tx, stay.RoomID, roomModel.StatusOccupied, roomModel.StatusAvailable); err != nil {
			return err //nolint:wrapcheck
		}

		user, _ := ctx.Value(constant.ContextKeyUserID).(string)

		folio = dto.Folio{
			CheckInID:     stay.ID,
			ReservationID: stay.ReservationID,
			ClientName:    stay.ClientName,
			PhoneNumber:   stay.PhoneNumber,
			RoomNumber:    stay.RoomNumber,
			CheckInDate:   timezone.Format(stay.CheckInDate, constant.DateFormat),
			CheckOutDate:  timezone.Format(checkOut, constant.DateFormat),
			DaysStayed:    days,
			RoomPrice:     stay.RoomPrice,
			TotalAmount:   total,
			AmountPaid:    settlement.Paid,
			PaymentMethod: settlement.Method,
			PaymentStatus: settlement.Status,
			Notes:         stay.Notes,
			SettledBy:     user,
			SettledAt:     timezone.Format(timezone.Now(), constant.DateFormat),
		}

		return nil
	})
	if err != nil {
		logUnexpected(err, "failed to check out")

		return res, err //nolint:wrapcheck
	}

	s.lifecycle.Evict(ctx, roomID)
	metrics.Transition(metrics.ClaimCheckIn, "checked_out")
	events.Dispatch(ctx, s.publisher, events.New(ctx, events.CheckInCheckedOut, id, roomID, map[string]any{
		"days_stayed":    folio.DaysStayed,
		"total_amount":   folio.TotalAmount.String(),
		"payment_status": folio.PaymentStatus,
	}))

	background.Go(ctx, "folio archive", func(ctx context.Context) {
		s.archiveFolio(ctx, folio)
	})

	return s.Get(ctx, id)
}

// archiveFolio stores the settlement summary. Failures are logged; the checkout already stands.
func (s *serviceImpl) archiveFolio(ctx context.Context, folio dto.Folio) {
	if !s.storage.Enabled() {
		return
	}

	body, err := json.Marshal(folio)
	if err != nil {
		log.Error().Err(err).Str("check_in_id", folio.CheckInID).Msg("failed to encode folio")

		return
	}

	if _, err = s.storage.UploadFileBytes(ctx, constant.Empty, folioDirectory, folio.CheckInID+".json", constant.ContentTypeJSON, body); err != nil {
		log.Error().Err(err).Str("check_in_id", folio.CheckInID).Msg("failed to archive folio")
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get check-in")

		return res, fmt.Errorf("failed to get check-in: %w", err)
	}

	if stay.ID == constant.Empty {
		return res, failure.NotFound("check-in not found") // nolint:wrapcheck
	}

	res.FromModel(stay)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCheckInsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if params.SortBy == constant.Empty {
		params.SortBy, params.SortDir = model.FieldCheckInDate, gDto.SortDirDesc
	}

	params.Sortable(model.TableName, sortableFields...)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count check-ins")

		return res, fmt.Errorf("failed to count check-ins: %w", err)
	}

	stays, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get check-ins")

		return res, fmt.Errorf("failed to get check-ins: %w", err)
	}

	res.FromModels(stays, total, params.Limit)

	return res, nil
}

// Current lists guests still in house, latest arrival first.
func (s *serviceImpl) Current(ctx context.Context) (res []dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn.Current")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCheckedIn, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldCheckInDate, SortDir: gDto.SortDirDesc}

	stays, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list current guests")

		return nil, fmt.Errorf("failed to list current guests: %w", err)
	}

	return dto.FromModels(stays), nil
}
