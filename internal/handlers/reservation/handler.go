package reservation

import (
	"net/http"

	"innkeep/infras/otel"
	conversionService "innkeep/internal/domains/conversion/service"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/model/dto"
	"innkeep/internal/domains/reservation/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Reservation
	conversion conversionService.Conversion
	otel       otel.Otel
}

func New(service service.Reservation, conversion conversionService.Conversion, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		conversion: conversion,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/outstanding", handler.GetOutstanding)
		routerGroup.Get("/upcoming", handler.GetUpcoming)
		routerGroup.Get("/arrivals", handler.GetArrivals)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/{id}/assign-room", handler.AssignRoom)
		routerGroup.Patch("/{id}/payment", handler.RecordPayment)
		routerGroup.Patch("/{id}/cancel", handler.CancelReservation)
		routerGroup.Patch("/{id}/status", handler.UpdateStatus)
		routerGroup.Post("/{id}/check-in", handler.ConvertToCheckIn)
	})
}

// CreateReservation books a future stay.
// @Summary Create a reservation
// @Description Book a stay for [check_in_date, check_out_date). A room_id binds a specific room, otherwise only room_type is held.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Reservation created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, reservation)
}

// GetReservations lists reservations.
// @Summary Get all reservations
// @Tags Reservation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(PENDING, CONFIRMED, CHECKED_IN, CANCELLED)
// @Param payment_status query string false "Filter by payment status" Enums(UNPAID, PARTIAL, PAID)
// @Param room_type query string false "Filter by room type"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup, err := listFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

func listFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	checks := []struct {
		param string
		field string
		tag   string
	}{
		{constant.RequestParamStatus, model.FieldStatus, "oneof=PENDING CONFIRMED CHECKED_IN CANCELLED"},
		{constant.RequestParamPaymentStatus, model.FieldPaymentStatus, "oneof=UNPAID PARTIAL PAID"},
		{constant.RequestParamRoomType, model.FieldRoomType, "max=50"},
	}

	for _, check := range checks {
		value := query.Get(check.param)
		if value == "" {
			continue
		}

		if err := validator.ValidateVar(value, check.tag); err != nil {
			return filterGroup, err
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    check.field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}

// GetOutstanding lists open reservations that still owe money.
// @Summary Get reservations with outstanding payments
// @Tags Reservation
// @Produce json
// @Success 200 {object} response.Data[[]dto.ReservationResponse] "Outstanding reservations"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/outstanding [get]
// @Security BearerAuth
func (handler *Handler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOutstanding")
	defer scope.End()

	reservations, err := handler.service.Outstanding(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get outstanding reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetUpcoming lists open reservations arriving from today on.
// @Summary Get upcoming reservations
// @Tags Reservation
// @Produce json
// @Success 200 {object} response.Data[[]dto.ReservationResponse] "Upcoming reservations"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/upcoming [get]
// @Security BearerAuth
func (handler *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUpcoming")
	defer scope.End()

	reservations, err := handler.service.Upcoming(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get upcoming reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetArrivals lists open reservations arriving today.
// @Summary Get today's arrivals
// @Tags Reservation
// @Produce json
// @Success 200 {object} response.Data[[]dto.ReservationResponse] "Arrivals"
// @Failure 500 {object} response.Error
// @Router /v1/reservations/arrivals [get]
// @Security BearerAuth
func (handler *Handler) GetArrivals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetArrivals")
	defer scope.End()

	reservations, err := handler.service.Arrivals(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get arrivals")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	reservation, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// AssignRoom binds or rebinds a room to an open reservation.
// @Summary Assign a room to a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.AssignRoomRequest true "Assign Room Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Room assigned"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/assign-room [patch]
// @Security BearerAuth
func (handler *Handler) AssignRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignRoom")
	defer scope.End()

	req := dto.AssignRoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.AssignRoom(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// RecordPayment adds a payment to a reservation.
// @Summary Record a reservation payment
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.RecordPaymentRequest true "Record Payment Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Payment recorded"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/payment [patch]
// @Security BearerAuth
func (handler *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordPayment")
	defer scope.End()

	req := dto.RecordPaymentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.RecordPayment(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record reservation payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// CancelReservation cancels an open reservation and frees its room.
// @Summary Cancel a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.CancelReservationRequest false "Cancel Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation cancelled"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/cancel [patch]
// @Security BearerAuth
func (handler *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelReservation")
	defer scope.End()

	req := dto.CancelReservationRequest{}

	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	reservation, err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// UpdateStatus overrides the reservation status.
// @Summary Update reservation status
// @Description Administrative override of the status. Rooms are left untouched.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Status updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStatus")
	defer scope.End()

	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.UpdateStatus(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// ConvertToCheckIn turns an open reservation into an active check-in.
// @Summary Check in a reservation
// @Description Occupies the bound room, or the first free room of the reserved type, and carries guest and payment data over.
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 201 {object} response.Data[checkInDto.CheckInResponse] "Guest checked in"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/check-in [post]
// @Security BearerAuth
func (handler *Handler) ConvertToCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConvertToCheckIn")
	defer scope.End()

	checkIn, err := handler.conversion.Convert(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to convert reservation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Reservation checked in by user " + user)

	response.WithJSON(w, http.StatusCreated, checkIn)
}
