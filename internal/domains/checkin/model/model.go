package model

import (
	"time"

	claimModel "innkeep/internal/domains/claim/model"
	"innkeep/internal/domains/payment"
	"innkeep/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "check_ins"
	EntityName = "check-in"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldRoomNumber    = "room_number"
	FieldCheckInDate   = "check_in_date"
	FieldCheckOutDate  = "check_out_date"
	FieldDaysStayed    = "days_stayed"
	FieldRoomPrice     = "room_price"
	FieldTotalAmount   = "total_amount"
	FieldAmountPaid    = "amount_paid"
	FieldPaymentMethod = "payment_method"
	FieldPaymentStatus = "payment_status"
	FieldStatus        = "status"
	FieldReservationID = "reservation_id"
	FieldNotes         = "notes"
)

const (
	StatusCheckedIn  = "CHECKED_IN"
	StatusCheckedOut = "CHECKED_OUT"
)

type CheckIn struct {
	ID             string              `db:"id"`
	ClientName     string              `db:"client_name"`
	PhoneNumber    string              `db:"phone_number"`
	RoomID         string              `db:"room_id"`
	RoomNumber     string              `db:"room_number"`
	CheckInDate    time.Time           `db:"check_in_date"`
	CheckOutDate   *time.Time          `db:"check_out_date"`
	DaysStayed     *int                `db:"days_stayed"`
	RoomPrice      decimal.Decimal     `db:"room_price"`
	TotalAmount    decimal.NullDecimal `db:"total_amount"`
	AmountPaid     decimal.Decimal     `db:"amount_paid"`
	PaymentMethod  string              `db:"payment_method"`
	PaymentStatus  string              `db:"payment_status"`
	Status         string              `db:"status"`
	ReservationID  *string             `db:"reservation_id"`
	Notes          *string             `db:"notes"`
	AttendantID    string              `db:"attendant_id"`
	RoomStatus     *string             `db:"room_status"     table:"rooms" column:"status"`
	AttendantName  *string             `db:"attendant_name"  table:"users" column:"full_name"`
	AttendantEmail *string             `db:"attendant_email" table:"users" column:"email"`
	model.Metadata
}

func (CheckIn) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = check_ins.room_id LEFT JOIN users ON users.id = check_ins.attendant_id"
}

func (c CheckIn) Active() bool {
	return c.Status == StatusCheckedIn
}

// Interval is the span the stay holds its room as of now. An in-house guest without a check-out
// date holds it through the end of today only, so later reservations of the room stay possible.
func (c CheckIn) Interval(now time.Time) claimModel.Interval {
	return claimModel.StayInterval(c.CheckInDate, c.CheckOutDate, now)
}

// AmountDue is the single-day price until a check-out date exists, then days stayed × price.
func (c CheckIn) AmountDue() decimal.Decimal {
	if c.CheckOutDate == nil {
		return c.RoomPrice
	}

	return payment.Total(StayDays(c.CheckInDate, *c.CheckOutDate), c.RoomPrice)
}

// StayDays bills every started day and at least one, so a same-day departure costs a day.
func StayDays(checkIn, checkOut time.Time) int {
	return max(claimModel.SpanDays(checkIn, checkOut), 1)
}
