package checkin

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/checkin/model"
	"innkeep/internal/domains/checkin/model/dto"
	"innkeep/internal/domains/checkin/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.CheckIn
	otel    otel.Otel
}

func New(service service.CheckIn, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/checkins", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateCheckIn)
		routerGroup.Get("/", handler.GetCheckIns)
		routerGroup.Get("/current", handler.GetCurrent)
		routerGroup.Get("/{id}", handler.GetCheckInByID)
		routerGroup.Patch("/{id}/payment", handler.RecordPayment)
		routerGroup.Patch("/{id}/change-room", handler.ChangeRoom)
		routerGroup.Patch("/{id}/checkout", handler.Checkout)
	})
}

// CreateCheckIn registers a walk-in guest.
// @Summary Walk-in check-in
// @Description Occupies an AVAILABLE room with no overlapping claim. The check-in date defaults to now.
// @Tags CheckIn
// @Accept json
// @Produce json
// @Param request body dto.CreateCheckInRequest true "Create Check-in Request"
// @Success 201 {object} response.Data[dto.CheckInResponse] "Guest checked in"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins [post]
// @Security BearerAuth
func (handler *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCheckIn")
	defer scope.End()

	req := dto.CreateCheckInRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	checkIn, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create check-in")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Check-in created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, checkIn)
}

// GetCheckIns lists check-ins.
// @Summary Get all check-ins
// @Tags CheckIn
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(CHECKED_IN, CHECKED_OUT)
// @Success 200 {object} response.Data[dto.GetCheckInsResponse] "List of check-ins"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins [get]
// @Security BearerAuth
func (handler *Handler) GetCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCheckIns")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if status := r.URL.Query().Get(constant.RequestParamStatus); status != "" {
		if err := validator.ValidateVar(status, "oneof=CHECKED_IN CHECKED_OUT"); err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	checkIns, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get check-ins")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, checkIns)
}

// GetCurrent lists guests in house.
// @Summary Get current guests
// @Tags CheckIn
// @Produce json
// @Success 200 {object} response.Data[[]dto.CheckInResponse] "Active check-ins"
// @Failure 500 {object} response.Error
// @Router /v1/checkins/current [get]
// @Security BearerAuth
func (handler *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCurrent")
	defer scope.End()

	checkIns, err := handler.service.Current(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get current check-ins")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, checkIns)
}

// GetCheckInByID retrieves a check-in.
// @Summary Get a check-in by ID
// @Tags CheckIn
// @Produce json
// @Param id path string true "Check-in ID"
// @Success 200 {object} response.Data[dto.CheckInResponse] "Check-in details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCheckInByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCheckInByID")
	defer scope.End()

	checkIn, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get check-in by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, checkIn)
}

// RecordPayment adds a payment to an active stay.
// @Summary Record a check-in payment
// @Tags CheckIn
// @Accept json
// @Produce json
// @Param id path string true "Check-in ID"
// @Param request body dto.RecordPaymentRequest true "Record Payment Request"
// @Success 200 {object} response.Data[dto.CheckInResponse] "Payment recorded"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins/{id}/payment [patch]
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

	checkIn, err := handler.service.RecordPayment(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record check-in payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, checkIn)
}

// ChangeRoom moves an active stay to another room.
// @Summary Change room
// @Tags CheckIn
// @Accept json
// @Produce json
// @Param id path string true "Check-in ID"
// @Param request body dto.ChangeRoomRequest true "Change Room Request"
// @Success 200 {object} response.Data[dto.CheckInResponse] "Room changed"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins/{id}/change-room [patch]
// @Security BearerAuth
func (handler *Handler) ChangeRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangeRoom")
	defer scope.End()

	req := dto.ChangeRoomRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	checkIn, err := handler.service.ChangeRoom(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, checkIn)
}

// Checkout ends an active stay, settles the bill and frees the room.
// @Summary Check out
// @Tags CheckIn
// @Accept json
// @Produce json
// @Param id path string true "Check-in ID"
// @Param request body dto.CheckoutRequest false "Checkout Request"
// @Success 200 {object} response.Data[dto.CheckInResponse] "Guest checked out"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/checkins/{id}/checkout [patch]
// @Security BearerAuth
func (handler *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	req := dto.CheckoutRequest{}

	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	checkIn, err := handler.service.Checkout(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Guest checked out by user " + user)

	response.WithJSON(w, http.StatusOK, checkIn)
}
