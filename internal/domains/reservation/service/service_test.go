package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"innkeep/infras/otel/mocks"
	claimModel "innkeep/internal/domains/claim/model"
	claimMocks "innkeep/internal/domains/claim/service/mocks"
	"innkeep/internal/domains/payment"
	reservationMocks "innkeep/internal/domains/reservation/mocks"
	"innkeep/internal/domains/reservation/model"
	"innkeep/internal/domains/reservation/model/dto"
	"innkeep/internal/domains/reservation/service"
	roomModel "innkeep/internal/domains/room/model"
	lifecycleMocks "innkeep/internal/domains/room/service/mocks"
	eventMocks "innkeep/internal/events/mocks"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/transaction"
	txMocks "innkeep/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo      *reservationMocks.MockReservation
	lifecycle *lifecycleMocks.MockLifecycle
	checker   *claimMocks.MockChecker
	txManager *txMocks.MockManager
	svc       service.Reservation
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      reservationMocks.NewMockReservation(ctrl),
		lifecycle: lifecycleMocks.NewMockLifecycle(ctrl),
		checker:   claimMocks.NewMockChecker(ctrl),
		txManager: txMocks.NewMockManager(ctrl),
	}

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.lifecycle.EXPECT().Evict(gomock.Any(), gomock.Any()).AnyTimes()
	f.lifecycle.EXPECT().Evict(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	f.svc = service.New(f.repo, f.lifecycle, f.checker, f.txManager, publisher, mocks.NewOtel())

	return f
}

func (f *fixture) runTx() {
	f.txManager.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn transaction.TxFunc) error {
			return fn(ctx, nil)
		})
}

func (f *fixture) expectGet(reservation model.Reservation) {
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
}

func (f *fixture) expectLock(reservation model.Reservation) {
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(reservation, nil)
}

func withUser() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "attendant-1")
}

func ptr(s string) *string {
	return &s
}

func room101() roomModel.Room {
	return roomModel.Room{ID: "room-101", RoomNumber: "101", RoomType: "DOUBLE", PricePerDay: decimal.NewFromInt(50), Status: roomModel.StatusAvailable}
}

func TestReservationService_Create(t *testing.T) {
	base := dto.CreateReservationRequest{
		ClientName:   "Ada",
		PhoneNumber:  "0700000000",
		RoomType:     "DOUBLE",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-03",
	}

	tests := []struct {
		name      string
		req       func() dto.CreateReservationRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "requested room is reserved for two nights",
			req: func() dto.CreateReservationRequest {
				req := base
				req.RoomID = "room-101"

				return req
			},
			setupMock: func(f *fixture) {
				f.runTx()
				gomock.InOrder(
					f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room101(), nil),
					f.checker.EXPECT().
						IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ string, interval claimModel.Interval, _ string) (bool, error) {
							assert.Equal(t, 2, claimModel.SpanDays(interval.Start, interval.End))

							return true, nil
						}),
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusReserved).Return(nil),
					f.repo.EXPECT().
						InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, reservation model.Reservation) error {
							assert.Equal(t, "room-101", *reservation.RoomID)
							assert.Equal(t, 2, reservation.NumberOfDays)
							assert.True(t, decimal.NewFromInt(50).Equal(reservation.PricePerDay))
							assert.True(t, decimal.NewFromInt(100).Equal(reservation.TotalAmount))
							assert.True(t, decimal.NewFromInt(100).Equal(reservation.BalanceDue))
							assert.Equal(t, model.StatusPending, reservation.Status)
							assert.Equal(t, payment.StatusUnpaid, reservation.PaymentStatus)
							assert.Equal(t, payment.MethodCash, reservation.PaymentMethod)
							assert.Equal(t, "attendant-1", reservation.AttendantID)

							return nil
						}),
				)
				f.expectGet(model.Reservation{ID: "res-1", Status: model.StatusPending})
			},
		},
		{
			name: "room of another type",
			req: func() dto.CreateReservationRequest {
				req := base
				req.RoomID = "room-101"
				req.RoomType = "SUITE"

				return req
			},
			setupMock: func(f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room101(), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "room already claimed for the dates",
			req: func() dto.CreateReservationRequest {
				req := base
				req.RoomID = "room-101"

				return req
			},
			setupMock: func(f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room101(), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "lost the race to bind the room",
			req: func() dto.CreateReservationRequest {
				req := base
				req.RoomID = "room-101"

				return req
			},
			setupMock: func(f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room101(), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), gomock.Any()).Return(true, nil)
				f.lifecycle.EXPECT().
					Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusReserved).
					Return(failure.Conflict("room is not AVAILABLE"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown room",
			req: func() dto.CreateReservationRequest {
				req := base
				req.RoomID = "room-404"

				return req
			},
			setupMock: func(f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-404").Return(roomModel.Room{}, failure.NotFound("room not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "type only with prepayment stays unassigned and confirmed",
			req: func() dto.CreateReservationRequest {
				req := base
				req.AmountPaid = decimal.NewFromInt(30)
				req.PricePerDay = decimal.NewNullDecimal(decimal.NewFromInt(45))
				req.PaymentMethod = payment.MethodCard

				return req
			},
			setupMock: func(f *fixture) {
				f.runTx()
				f.checker.EXPECT().FirstFit(gomock.Any(), gomock.Any(), "DOUBLE", gomock.Any(), gomock.Any()).Return(room101(), nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, reservation model.Reservation) error {
						assert.Nil(t, reservation.RoomID)
						assert.True(t, decimal.NewFromInt(90).Equal(reservation.TotalAmount))
						assert.True(t, decimal.NewFromInt(60).Equal(reservation.BalanceDue))
						assert.Equal(t, model.StatusConfirmed, reservation.Status)
						assert.Equal(t, payment.StatusPartial, reservation.PaymentStatus)
						assert.Equal(t, payment.MethodCard, reservation.PaymentMethod)

						return nil
					})
				f.expectGet(model.Reservation{ID: "res-1", Status: model.StatusConfirmed})
			},
		},
		{
			name: "no room of the type is free",
			req: func() dto.CreateReservationRequest {
				return base
			},
			setupMock: func(f *fixture) {
				f.runTx()
				f.checker.EXPECT().FirstFit(gomock.Any(), gomock.Any(), "DOUBLE", gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "check-out before check-in",
			req: func() dto.CreateReservationRequest {
				req := base
				req.CheckOutDate = "2025-05-30"

				return req
			},
			setupMock: func(_ *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "same-day stay has no nights",
			req: func() dto.CreateReservationRequest {
				req := base
				req.CheckOutDate = req.CheckInDate

				return req
			},
			setupMock: func(_ *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Create(withUser(), tt.req())

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservationService_AssignRoom(t *testing.T) {
	reserved := func(status string, roomID *string) model.Reservation {
		return model.Reservation{ID: "res-1", RoomType: "DOUBLE", Status: status, RoomID: roomID}
	}

	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "moves the reservation to another room",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(reserved(model.StatusConfirmed, ptr("room-100")))
				gomock.InOrder(
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-100", roomModel.StatusReserved, roomModel.StatusAvailable).Return(nil),
					f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room101(), nil),
					f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), "res-1").Return(true, nil),
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusReserved).Return(nil),
					f.repo.EXPECT().
						UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
							assert.Equal(t, "room-101", fields[model.FieldRoomID])

							return 1, nil
						}),
				)
				f.expectGet(reserved(model.StatusConfirmed, ptr("room-101")))
			},
		},
		{
			name: "same room is a no-op",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(reserved(model.StatusPending, ptr("room-101")))
				f.expectGet(reserved(model.StatusPending, ptr("room-101")))
			},
		},
		{
			name: "cancelled reservation",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(reserved(model.StatusCancelled, nil))
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "new room taken for the dates",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(reserved(model.StatusPending, nil))
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room101(), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), "res-1").Return(false, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.AssignRoom(withUser(), "res-1", dto.AssignRoomRequest{RoomID: "room-101"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservationService_RecordPayment(t *testing.T) {
	pending := model.Reservation{
		ID:            "res-1",
		Status:        model.StatusPending,
		TotalAmount:   decimal.NewFromInt(100),
		AmountPaid:    decimal.Zero,
		PaymentMethod: payment.MethodCash,
		PaymentStatus: payment.StatusUnpaid,
	}

	tests := []struct {
		name      string
		req       dto.RecordPaymentRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "full payment confirms the reservation",
			req:  dto.RecordPaymentRequest{Amount: decimal.NewFromInt(100), PaymentMethod: payment.MethodCard},
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(pending)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.True(t, decimal.NewFromInt(100).Equal(fields[model.FieldAmountPaid].(decimal.Decimal)))
						assert.True(t, decimal.Zero.Equal(fields[model.FieldBalanceDue].(decimal.Decimal)))
						assert.Equal(t, payment.StatusPaid, fields[model.FieldPaymentStatus])
						assert.Equal(t, payment.MethodCard, fields[model.FieldPaymentMethod])
						assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])

						return 1, nil
					})
				f.expectGet(pending)
			},
		},
		{
			name: "partial payment keeps the method when none given",
			req:  dto.RecordPaymentRequest{Amount: decimal.NewFromInt(40)},
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(pending)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, payment.StatusPartial, fields[model.FieldPaymentStatus])
						assert.Equal(t, payment.MethodCash, fields[model.FieldPaymentMethod])

						return 1, nil
					})
				f.expectGet(pending)
			},
		},
		{
			name: "checked in reservation",
			req:  dto.RecordPaymentRequest{Amount: decimal.NewFromInt(10)},
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(model.Reservation{ID: "res-1", Status: model.StatusCheckedIn})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:      "zero amount",
			req:       dto.RecordPaymentRequest{Amount: decimal.Zero},
			setupMock: func(_ *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.RecordPayment(withUser(), "res-1", tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "releases the room and keeps earlier notes",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(model.Reservation{ID: "res-1", Status: model.StatusConfirmed, RoomID: ptr("room-101"), Notes: ptr("late arrival")})
				f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusReserved, roomModel.StatusAvailable).Return(nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
						assert.Equal(t, "late arrival\nCancelled: guest request", *fields[model.FieldNotes].(*string))

						return 1, nil
					})
				f.expectGet(model.Reservation{ID: "res-1", Status: model.StatusCancelled})
			},
		},
		{
			name: "already cancelled",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(model.Reservation{ID: "res-1", Status: model.StatusCancelled})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "missing reservation",
			setupMock: func(f *fixture) {
				f.runTx()
				f.expectLock(model.Reservation{})
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "database error",
			setupMock: func(f *fixture) {
				f.runTx()
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Reservation{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Cancel(withUser(), "res-1", dto.CancelReservationRequest{Reason: "guest request"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservationService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.runTx()
	f.expectLock(model.Reservation{ID: "res-1", Status: model.StatusCancelled, RoomID: ptr("room-101")})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
			assert.Equal(t, model.StatusPending, fields[model.FieldStatus])
			assert.NotContains(t, fields, model.FieldRoomID)

			return 1, nil
		})
	f.expectGet(model.Reservation{ID: "res-1", Status: model.StatusPending})

	res, err := f.svc.UpdateStatus(withUser(), "res-1", dto.UpdateStatusRequest{Status: model.StatusPending})

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
}

func TestReservationService_GetAll(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			assert.Equal(t, "reservations.check_in_date", params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			return []model.Reservation{{ID: "res-1", RoomNumber: ptr("101")}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Reservations, 1)
}

func TestReservationService_Outstanding(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "reservations.payment_status IN")
			assert.Contains(t, where, "reservations.status IN")
			assert.Equal(t, payment.StatusUnpaid, args["payment_status_0"])

			return []model.Reservation{}, nil
		})

	res, err := f.svc.Outstanding(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, res)
}

func TestReservationService_Get(t *testing.T) {
	f := newFixture(t)
	f.expectGet(model.Reservation{})

	_, err := f.svc.Get(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
