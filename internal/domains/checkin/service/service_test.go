package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"innkeep/infras/otel/mocks"
	s3Mocks "innkeep/infras/s3/mocks"
	checkInMocks "innkeep/internal/domains/checkin/mocks"
	"innkeep/internal/domains/checkin/model"
	"innkeep/internal/domains/checkin/model/dto"
	"innkeep/internal/domains/checkin/service"
	claimModel "innkeep/internal/domains/claim/model"
	claimMocks "innkeep/internal/domains/claim/service/mocks"
	"innkeep/internal/domains/payment"
	roomModel "innkeep/internal/domains/room/model"
	lifecycleMocks "innkeep/internal/domains/room/service/mocks"
	eventMocks "innkeep/internal/events/mocks"
	"innkeep/shared/background"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/failure"
	"innkeep/shared/timezone"
	"innkeep/shared/transaction"
	txMocks "innkeep/shared/transaction/mocks"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo      *checkInMocks.MockCheckIn
	lifecycle *lifecycleMocks.MockLifecycle
	checker   *claimMocks.MockChecker
	txManager *txMocks.MockManager
	storage   *s3Mocks.MockS3
	svc       service.CheckIn
}

func newFixture(t *testing.T, archive bool) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      checkInMocks.NewMockCheckIn(ctrl),
		lifecycle: lifecycleMocks.NewMockLifecycle(ctrl),
		checker:   claimMocks.NewMockChecker(ctrl),
		txManager: txMocks.NewMockManager(ctrl),
		storage:   s3Mocks.NewMockS3(ctrl),
	}

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.storage.EXPECT().Enabled().Return(archive).AnyTimes()
	f.lifecycle.EXPECT().Evict(gomock.Any(), gomock.Any()).AnyTimes()
	f.lifecycle.EXPECT().Evict(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	f.svc = service.New(f.repo, f.lifecycle, f.checker, f.txManager, publisher, f.storage, mocks.NewOtel())

	return f
}

func (f *fixture) runTx() {
	f.txManager.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn transaction.TxFunc) error {
			return fn(ctx, nil)
		})
}

func (f *fixture) expectLock(stay model.CheckIn) {
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stay, nil)
}

func (f *fixture) expectGet(stay model.CheckIn) {
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stay, nil)
}

func withUser() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "attendant-1")
}

func date(value string) time.Time {
	t, _ := timezone.ParseDate(value)

	return t
}

func room(id, number string, price int64, status string) roomModel.Room {
	return roomModel.Room{ID: id, RoomNumber: number, RoomType: "DOUBLE", PricePerDay: decimal.NewFromInt(price), Status: status}
}

func inHouse() model.CheckIn {
	return model.CheckIn{
		ID:            "stay-1",
		ClientName:    "Ada",
		PhoneNumber:   "0700000000",
		RoomID:        "room-101",
		RoomNumber:    "101",
		CheckInDate:   date("2025-06-01"),
		RoomPrice:     decimal.NewFromInt(50),
		PaymentMethod: payment.MethodCash,
		PaymentStatus: payment.StatusUnpaid,
		Status:        model.StatusCheckedIn,
	}
}

func TestCheckInService_Create(t *testing.T) {
	base := dto.CreateCheckInRequest{
		ClientName:   "Ada",
		PhoneNumber:  "0700000000",
		RoomID:       "room-101",
		CheckInDate:  "2025-06-01",
		CheckOutDate: "2025-06-03",
	}

	tests := []struct {
		name      string
		req       func() dto.CreateCheckInRequest
		setupMock func(t *testing.T, f *fixture)
		wantCode  int
	}{
		{
			name: "walk-in occupies the room at its list price",
			req: func() dto.CreateCheckInRequest {
				req := base
				req.AmountPaid = decimal.NewFromInt(60)

				return req
			},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				gomock.InOrder(
					f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room("room-101", "101", 50, roomModel.StatusAvailable), nil),
					f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), constant.Empty).Return(true, nil),
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusOccupied).Return(nil),
					f.repo.EXPECT().
						InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, stay model.CheckIn) error {
							assert.Equal(t, "101", stay.RoomNumber)
							assert.True(t, decimal.NewFromInt(50).Equal(stay.RoomPrice))
							assert.Equal(t, model.StatusCheckedIn, stay.Status)
							assert.Equal(t, payment.MethodCash, stay.PaymentMethod)
							assert.Equal(t, payment.StatusPartial, stay.PaymentStatus)
							assert.Equal(t, "attendant-1", stay.AttendantID)
							assert.Nil(t, stay.ReservationID)

							return nil
						}),
				)
				f.expectGet(inHouse())
			},
		},
		{
			name: "price override without check-out date is due for one day",
			req: func() dto.CreateCheckInRequest {
				req := base
				req.CheckOutDate = constant.Empty
				req.RoomPrice = decimal.NewNullDecimal(decimal.NewFromInt(40))
				req.AmountPaid = decimal.NewFromInt(40)

				return req
			},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room("room-101", "101", 50, roomModel.StatusAvailable), nil)
				f.checker.EXPECT().
					IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), constant.Empty).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ string, interval claimModel.Interval, _ string) (bool, error) {
						now := timezone.Now()
						assert.True(t, interval.End.After(now), "an in-house guest holds the room tonight")
						assert.False(t, interval.End.After(now.Add(24*time.Hour)), "and no longer than through today")

						return true, nil
					})
				f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusOccupied).Return(nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, stay model.CheckIn) error {
						assert.True(t, decimal.NewFromInt(40).Equal(stay.RoomPrice))
						assert.Equal(t, payment.StatusPaid, stay.PaymentStatus)

						return nil
					})
				f.expectGet(inHouse())
			},
		},
		{
			name: "room under maintenance",
			req:  func() dto.CreateCheckInRequest { return base },
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room("room-101", "101", 50, roomModel.StatusMaintenance), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "room reserved by someone else for the dates",
			req:  func() dto.CreateCheckInRequest { return base },
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room("room-101", "101", 50, roomModel.StatusAvailable), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), constant.Empty).Return(false, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "lost the race to occupy the room",
			req:  func() dto.CreateCheckInRequest { return base },
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room("room-101", "101", 50, roomModel.StatusAvailable), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), constant.Empty).Return(true, nil)
				f.lifecycle.EXPECT().
					Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusOccupied).
					Return(failure.Conflict("room is not AVAILABLE"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown room",
			req:  func() dto.CreateCheckInRequest { return base },
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(roomModel.Room{}, failure.NotFound("room not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "check-out before check-in",
			req: func() dto.CreateCheckInRequest {
				req := base
				req.CheckOutDate = "2025-05-30"

				return req
			},
			setupMock: func(_ *testing.T, _ *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "insert fails",
			req:  func() dto.CreateCheckInRequest { return base },
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-101").Return(room("room-101", "101", 50, roomModel.StatusAvailable), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-101", gomock.Any(), constant.Empty).Return(true, nil)
				f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusAvailable, roomModel.StatusOccupied).Return(nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.setupMock(t, f)

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

func TestCheckInService_RecordPayment(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.RecordPaymentRequest
		setupMock func(t *testing.T, f *fixture)
		wantCode  int
	}{
		{
			name: "settles the open day with a new method",
			req:  dto.RecordPaymentRequest{Amount: decimal.NewFromInt(50), PaymentMethod: payment.MethodCard},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.True(t, decimal.NewFromInt(50).Equal(fields[model.FieldAmountPaid].(decimal.Decimal)))
						assert.Equal(t, payment.MethodCard, fields[model.FieldPaymentMethod])
						assert.Equal(t, payment.StatusPaid, fields[model.FieldPaymentStatus])

						return 1, nil
					})
				f.expectGet(inHouse())
			},
		},
		{
			name: "checked-out stay",
			req:  dto.RecordPaymentRequest{Amount: decimal.NewFromInt(10)},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				stay := inHouse()
				stay.Status = model.StatusCheckedOut
				f.expectLock(stay)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown stay",
			req:  dto.RecordPaymentRequest{Amount: decimal.NewFromInt(10)},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(model.CheckIn{})
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "non-positive amount",
			req:       dto.RecordPaymentRequest{Amount: decimal.Zero},
			setupMock: func(_ *testing.T, _ *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.setupMock(t, f)

			_, err := f.svc.RecordPayment(withUser(), "stay-1", tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInService_ChangeRoom(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangeRoomRequest
		setupMock func(t *testing.T, f *fixture)
		wantCode  int
	}{
		{
			name: "moves the guest and frees the old room",
			req:  dto.ChangeRoomRequest{RoomID: "room-202", Reason: "noisy"},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				gomock.InOrder(
					f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-202").Return(room("room-202", "202", 70, roomModel.StatusAvailable), nil),
					f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-202", gomock.Any(), "stay-1").Return(true, nil),
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-202", roomModel.StatusAvailable, roomModel.StatusOccupied).Return(nil),
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusOccupied, roomModel.StatusAvailable).Return(nil),
					f.repo.EXPECT().
						UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
							assert.Equal(t, "room-202", fields[model.FieldRoomID])
							assert.Equal(t, "202", fields[model.FieldRoomNumber])
							assert.True(t, decimal.NewFromInt(70).Equal(fields[model.FieldRoomPrice].(decimal.Decimal)))
							assert.Equal(t, "Room changed from 101 to 202: noisy", *fields[model.FieldNotes].(*string))

							return 1, nil
						}),
				)
				f.expectGet(inHouse())
			},
		},
		{
			name: "keeps an agreed price",
			req:  dto.ChangeRoomRequest{RoomID: "room-202", RoomPrice: decimal.NewNullDecimal(decimal.NewFromInt(50))},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-202").Return(room("room-202", "202", 70, roomModel.StatusAvailable), nil)
				f.checker.EXPECT().IsRoomAvailable(gomock.Any(), gomock.Any(), "room-202", gomock.Any(), "stay-1").Return(true, nil)
				f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-202", roomModel.StatusAvailable, roomModel.StatusOccupied).Return(nil)
				f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusOccupied, roomModel.StatusAvailable).Return(nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.True(t, decimal.NewFromInt(50).Equal(fields[model.FieldRoomPrice].(decimal.Decimal)))
						assert.NotContains(t, fields, model.FieldNotes)

						return 1, nil
					})
				f.expectGet(inHouse())
			},
		},
		{
			name: "target room occupied",
			req:  dto.ChangeRoomRequest{RoomID: "room-202"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				f.lifecycle.EXPECT().Lookup(gomock.Any(), gomock.Any(), "room-202").Return(room("room-202", "202", 70, roomModel.StatusOccupied), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "same room",
			req:  dto.ChangeRoomRequest{RoomID: "room-101"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "checked-out stay",
			req:  dto.ChangeRoomRequest{RoomID: "room-202"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				stay := inHouse()
				stay.Status = model.StatusCheckedOut
				f.expectLock(stay)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.setupMock(t, f)

			_, err := f.svc.ChangeRoom(withUser(), "stay-1", tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInService_Checkout(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CheckoutRequest
		setupMock func(t *testing.T, f *fixture)
		wantCode  int
	}{
		{
			name: "same-day departure is billed one day",
			req:  dto.CheckoutRequest{CheckOutDate: "2025-06-01", Amount: decimal.NewNullDecimal(decimal.NewFromInt(50))},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				gomock.InOrder(
					f.repo.EXPECT().
						UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
							assert.Equal(t, 1, fields[model.FieldDaysStayed])
							assert.True(t, decimal.NewFromInt(50).Equal(fields[model.FieldTotalAmount].(decimal.Decimal)))
							assert.True(t, decimal.NewFromInt(50).Equal(fields[model.FieldAmountPaid].(decimal.Decimal)))
							assert.Equal(t, payment.StatusPaid, fields[model.FieldPaymentStatus])
							assert.Equal(t, model.StatusCheckedOut, fields[model.FieldStatus])

							return 1, nil
						}),
					f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusOccupied, roomModel.StatusAvailable).Return(nil),
				)
				f.expectGet(inHouse())
			},
		},
		{
			name: "three days unpaid",
			req:  dto.CheckoutRequest{CheckOutDate: "2025-06-04"},
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
						assert.Equal(t, 3, fields[model.FieldDaysStayed])
						assert.True(t, decimal.NewFromInt(150).Equal(fields[model.FieldTotalAmount].(decimal.Decimal)))
						assert.Equal(t, payment.StatusUnpaid, fields[model.FieldPaymentStatus])

						return 1, nil
					})
				f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusOccupied, roomModel.StatusAvailable).Return(nil)
				f.expectGet(inHouse())
			},
		},
		{
			name: "already checked out",
			req:  dto.CheckoutRequest{CheckOutDate: "2025-06-02"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				stay := inHouse()
				stay.Status = model.StatusCheckedOut
				f.expectLock(stay)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "check-out before check-in",
			req:  dto.CheckoutRequest{CheckOutDate: "2025-05-31"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "room no longer occupied",
			req:  dto.CheckoutRequest{CheckOutDate: "2025-06-02"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.expectLock(inHouse())
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				f.lifecycle.EXPECT().
					Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusOccupied, roomModel.StatusAvailable).
					Return(failure.Conflict("room is not OCCUPIED"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			tt.setupMock(t, f)

			_, err := f.svc.Checkout(withUser(), "stay-1", tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInService_Checkout_ArchivesFolio(t *testing.T) {
	f := newFixture(t, true)
	uploaded := make(chan []byte, 1)

	f.runTx()
	f.expectLock(inHouse())
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
	f.lifecycle.EXPECT().Transition(gomock.Any(), gomock.Any(), "room-101", roomModel.StatusOccupied, roomModel.StatusAvailable).Return(nil)
	f.expectGet(inHouse())
	f.storage.EXPECT().
		UploadFileBytes(gomock.Any(), constant.Empty, "folios", "stay-1.json", constant.ContentTypeJSON, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _, _ string, body []byte) (string, error) {
			uploaded <- body

			return "https://files/folios/stay-1.json", nil
		})

	_, err := f.svc.Checkout(withUser(), "stay-1", dto.CheckoutRequest{CheckOutDate: "2025-06-03"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// shutdown drains the upload, so it is done once Wait returns
	require.NoError(t, background.Wait(ctx))

	select {
	case body := <-uploaded:
		var folio dto.Folio
		require.NoError(t, json.Unmarshal(body, &folio))
		assert.Equal(t, "stay-1", folio.CheckInID)
		assert.Equal(t, 2, folio.DaysStayed)
		assert.True(t, decimal.NewFromInt(100).Equal(folio.TotalAmount))
		assert.Equal(t, "attendant-1", folio.SettledBy)
	default:
		t.Fatal("folio upload was not tracked by the background group")
	}
}

func TestCheckInService_Get(t *testing.T) {
	f := newFixture(t, false)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.CheckIn{}, nil)

	_, err := f.svc.Get(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestCheckInService_GetAll(t *testing.T) {
	f := newFixture(t, false)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.CheckIn, error) {
			assert.Equal(t, "check_ins.check_in_date", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.CheckIn{inHouse()}, nil
		})

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Len(t, res.CheckIns, 1)
	assert.Equal(t, 2, res.TotalPage)
}

func TestCheckInService_Current(t *testing.T) {
	f := newFixture(t, false)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.CheckIn, error) {
			require.Len(t, filter.Filters, 1)
			assert.Equal(t, model.StatusCheckedIn, filter.Filters[0].(gDto.Filter).Value)

			return []model.CheckIn{inHouse()}, nil
		})

	res, err := f.svc.Current(context.Background())

	require.NoError(t, err)
	assert.Len(t, res, 1)
}
