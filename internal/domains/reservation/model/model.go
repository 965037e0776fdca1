package model

import (
	"time"

	claimModel "innkeep/internal/domains/claim/model"
	"innkeep/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldRoomType      = "room_type"
	FieldCheckInDate   = "check_in_date"
	FieldCheckOutDate  = "check_out_date"
	FieldAmountPaid    = "amount_paid"
	FieldBalanceDue    = "balance_due"
	FieldPaymentMethod = "payment_method"
	FieldPaymentStatus = "payment_status"
	FieldStatus        = "status"
	FieldNotes         = "notes"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCheckedIn = "CHECKED_IN"
	StatusCancelled = "CANCELLED"
)

type Reservation struct {
	ID             string          `db:"id"`
	ClientName     string          `db:"client_name"`
	PhoneNumber    string          `db:"phone_number"`
	Email          *string         `db:"email"`
	RoomID         *string         `db:"room_id"`
	RoomType       string          `db:"room_type"`
	CheckInDate    time.Time       `db:"check_in_date"`
	CheckOutDate   time.Time       `db:"check_out_date"`
	NumberOfDays   int             `db:"number_of_days"`
	PricePerDay    decimal.Decimal `db:"price_per_day"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	AmountPaid     decimal.Decimal `db:"amount_paid"`
	BalanceDue     decimal.Decimal `db:"balance_due"`
	PaymentMethod  string          `db:"payment_method"`
	PaymentStatus  string          `db:"payment_status"`
	Status         string          `db:"status"`
	Notes          *string         `db:"notes"`
	AttendantID    string          `db:"attendant_id"`
	RoomNumber     *string         `db:"room_number"     table:"rooms" column:"room_number"`
	RoomStatus     *string         `db:"room_status"     table:"rooms" column:"status"`
	AttendantName  *string         `db:"attendant_name"  table:"users" column:"full_name"`
	AttendantEmail *string         `db:"attendant_email" table:"users" column:"email"`
	model.Metadata
}

func (Reservation) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = reservations.room_id LEFT JOIN users ON users.id = reservations.attendant_id"
}

// Active reports whether the reservation can still move: assign, pay, cancel or convert.
func (r Reservation) Active() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

func (r Reservation) BoundRoom() string {
	if r.RoomID == nil {
		return ""
	}

	return *r.RoomID
}

func (r Reservation) Interval() claimModel.Interval {
	return claimModel.NewInterval(r.CheckInDate, r.CheckOutDate)
}

// Nights counts started nights in [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return claimModel.SpanDays(checkIn, checkOut)
}
