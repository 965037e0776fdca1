package dto

import (
	"innkeep/internal/domains/payment"
	"innkeep/internal/domains/reservation/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"

	"github.com/shopspring/decimal"
)

type CreateReservationRequest struct {
	ClientName    string              `json:"client_name"    validate:"required,notblank,max=100"`
	PhoneNumber   string              `json:"phone_number"   validate:"required,notblank,max=30"`
	Email         string              `json:"email"          validate:"omitempty,email"`
	RoomID        string              `json:"room_id"        validate:"omitempty,uuid"`
	RoomType      string              `json:"room_type"      validate:"required,notblank"`
	CheckInDate   string              `json:"check_in_date"  validate:"required,calendardate"`
	CheckOutDate  string              `json:"check_out_date" validate:"required,calendardate"`
	PricePerDay   decimal.NullDecimal `json:"price_per_day"  validate:"omitempty,gte=0"`
	PaymentMethod string              `json:"payment_method" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER FREE"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"    validate:"gte=0"`
	Notes         string              `json:"notes"          validate:"omitempty,max=1000"`
}

type AssignRoomRequest struct {
	RoomID string `json:"room_id" validate:"required,uuid"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"         validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER FREE"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CHECKED_IN CANCELLED"`
}

type RoomSummary struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
	Status     string `json:"status"`
}

type AttendantSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func NewAttendantSummary(id string, name, email *string) AttendantSummary {
	summary := AttendantSummary{ID: id}

	if name != nil {
		summary.FullName = *name
	}

	if email != nil {
		summary.Email = *email
	}

	return summary
}

type ReservationResponse struct {
	ID            string           `json:"id"`
	ClientName    string           `json:"client_name"`
	PhoneNumber   string           `json:"phone_number"`
	Email         *string          `json:"email"`
	RoomID        *string          `json:"room_id"`
	Room          *RoomSummary     `json:"room,omitempty"`
	RoomType      string           `json:"room_type"`
	CheckInDate   string           `json:"check_in_date"`
	CheckOutDate  string           `json:"check_out_date"`
	NumberOfDays  int              `json:"number_of_days"`
	PricePerDay   decimal.Decimal  `json:"price_per_day"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	AmountPaid    decimal.Decimal  `json:"amount_paid"`
	BalanceDue    decimal.Decimal  `json:"balance_due"`
	PaymentMethod string           `json:"payment_method"`
	PaymentStatus string           `json:"payment_status"`
	Status        string           `json:"status"`
	Notes         *string          `json:"notes"`
	Attendant     AttendantSummary `json:"attendant"`
	gDto.Audit
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ClientName = model.ClientName
	r.PhoneNumber = model.PhoneNumber
	r.Email = model.Email
	r.RoomID = model.RoomID
	r.RoomType = model.RoomType
	r.CheckInDate = timezone.Format(model.CheckInDate, constant.DateFormat)
	r.CheckOutDate = timezone.Format(model.CheckOutDate, constant.DateFormat)
	r.NumberOfDays = model.NumberOfDays
	r.PricePerDay = model.PricePerDay
	r.TotalAmount = model.TotalAmount
	r.AmountPaid = model.AmountPaid
	r.BalanceDue = model.BalanceDue
	r.PaymentMethod = model.PaymentMethod
	r.PaymentStatus = model.PaymentStatus
	r.Status = model.Status
	r.Notes = model.Notes
	r.Attendant = NewAttendantSummary(model.AttendantID, model.AttendantName, model.AttendantEmail)
	r.Audit = gDto.AuditOf(model.Metadata)

	if model.RoomID != nil {
		r.Room = &RoomSummary{ID: *model.RoomID}

		if model.RoomNumber != nil {
			r.Room.RoomNumber = *model.RoomNumber
		}

		if model.RoomStatus != nil {
			r.Room.Status = *model.RoomStatus
		}
	}
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = FromModels(models)
}

func FromModels(models []model.Reservation) []ReservationResponse {
	res := make([]ReservationResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

// PaymentMethodOrDefault falls back to cash when the request names no method.
func PaymentMethodOrDefault(method string) string {
	if method == "" {
		return payment.MethodCash
	}

	return method
}
