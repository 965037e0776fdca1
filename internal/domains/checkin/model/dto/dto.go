package dto

import (
	"innkeep/internal/domains/checkin/model"
	reservationDto "innkeep/internal/domains/reservation/model/dto"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/shared/timezone"

	"github.com/shopspring/decimal"
)

type CreateCheckInRequest struct {
	ClientName    string              `json:"client_name"    validate:"required,notblank,max=100"`
	PhoneNumber   string              `json:"phone_number"   validate:"required,notblank,max=30"`
	RoomID        string              `json:"room_id"        validate:"required,uuid"`
	CheckInDate   string              `json:"check_in_date"  validate:"omitempty,calendardate"`
	CheckOutDate  string              `json:"check_out_date" validate:"omitempty,calendardate"`
	RoomPrice     decimal.NullDecimal `json:"room_price"     validate:"omitempty,gte=0"`
	PaymentMethod string              `json:"payment_method" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER FREE"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"    validate:"gte=0"`
	Notes         string              `json:"notes"          validate:"omitempty,max=1000"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"         validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER FREE"`
}

type ChangeRoomRequest struct {
	RoomID    string              `json:"room_id"    validate:"required,uuid"`
	RoomPrice decimal.NullDecimal `json:"room_price" validate:"omitempty,gte=0"`
	Reason    string              `json:"reason"     validate:"omitempty,max=500"`
}

// CheckoutRequest settles the stay. Without a check-out date the stay ends now.
type CheckoutRequest struct {
	CheckOutDate  string              `json:"check_out_date" validate:"omitempty,calendardate"`
	Amount        decimal.NullDecimal `json:"amount"         validate:"omitempty,gt=0"`
	PaymentMethod string              `json:"payment_method" validate:"omitempty,oneof=CASH CARD MOBILE_MONEY BANK_TRANSFER FREE"`
}

type CheckInResponse struct {
	ID            string                          `json:"id"`
	ClientName    string                          `json:"client_name"`
	PhoneNumber   string                          `json:"phone_number"`
	RoomID        string                          `json:"room_id"`
	RoomNumber    string                          `json:"room_number"`
	RoomStatus    string                          `json:"room_status"`
	CheckInDate   string                          `json:"check_in_date"`
	CheckOutDate  *string                         `json:"check_out_date"`
	DaysStayed    *int                            `json:"days_stayed"`
	RoomPrice     decimal.Decimal                 `json:"room_price"`
	TotalAmount   decimal.NullDecimal             `json:"total_amount"`
	AmountPaid    decimal.Decimal                 `json:"amount_paid"`
	PaymentMethod string                          `json:"payment_method"`
	PaymentStatus string                          `json:"payment_status"`
	Status        string                          `json:"status"`
	ReservationID *string                         `json:"reservation_id"`
	Notes         *string                         `json:"notes"`
	Attendant     reservationDto.AttendantSummary `json:"attendant"`
	gDto.Audit
}

func (c *CheckInResponse) FromModel(model model.CheckIn) {
	c.ID = model.ID
	c.ClientName = model.ClientName
	c.PhoneNumber = model.PhoneNumber
	c.RoomID = model.RoomID
	c.RoomNumber = model.RoomNumber
	c.CheckInDate = timezone.Format(model.CheckInDate, constant.DateFormat)
	c.DaysStayed = model.DaysStayed
	c.RoomPrice = model.RoomPrice
	c.TotalAmount = model.TotalAmount
	c.AmountPaid = model.AmountPaid
	c.PaymentMethod = model.PaymentMethod
	c.PaymentStatus = model.PaymentStatus
	c.Status = model.Status
	c.ReservationID = model.ReservationID
	c.Notes = model.Notes
	c.Attendant = reservationDto.NewAttendantSummary(model.AttendantID, model.AttendantName, model.AttendantEmail)
	c.Audit = gDto.AuditOf(model.Metadata)

	if model.RoomStatus != nil {
		c.RoomStatus = *model.RoomStatus
	}

	if model.CheckOutDate != nil {
		checkOut := timezone.Format(*model.CheckOutDate, constant.DateFormat)
		c.CheckOutDate = &checkOut
	}
}

type GetCheckInsResponse struct {
	CheckIns  []CheckInResponse `json:"check_ins"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (c *GetCheckInsResponse) FromModels(models []model.CheckIn, totalData, limit int) {
	c.TotalData = totalData
	c.TotalPage = shared.CalculateTotalPage(totalData, limit)
	c.CheckIns = FromModels(models)
}

func FromModels(models []model.CheckIn) []CheckInResponse {
	res := make([]CheckInResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

// Folio is the settlement summary archived at checkout.
type Folio struct {
	CheckInID     string          `json:"check_in_id"`
	ReservationID *string         `json:"reservation_id,omitempty"`
	ClientName    string          `json:"client_name"`
	PhoneNumber   string          `json:"phone_number"`
	RoomNumber    string          `json:"room_number"`
	CheckInDate   string          `json:"check_in_date"`
	CheckOutDate  string          `json:"check_out_date"`
	DaysStayed    int             `json:"days_stayed"`
	RoomPrice     decimal.Decimal `json:"room_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Notes         *string         `json:"notes,omitempty"`
	SettledBy     string          `json:"settled_by"`
	SettledAt     string          `json:"settled_at"`
}
