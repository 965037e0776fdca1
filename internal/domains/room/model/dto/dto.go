package dto

import (
	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	RoomNumber  string          `json:"room_number"   validate:"required,notblank,max=20"`
	RoomType    string          `json:"room_type"     validate:"required,notblank,max=50"`
	PricePerDay decimal.Decimal `json:"price_per_day" validate:"gte=0"`
	Status      string          `json:"status"        validate:"omitempty,oneof=AVAILABLE MAINTENANCE"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	status := c.Status
	if status == "" {
		status = model.StatusAvailable
	}

	return model.Room{
		ID:          uuid.NewString(),
		RoomNumber:  c.RoomNumber,
		RoomType:    c.RoomType,
		PricePerDay: c.PricePerDay,
		Status:      status,
		Metadata:    gModel.NewMetadata(user, timezone.Now()),
	}
}

// UpdateRoomRequest carries catalog fields only; status moves through claims.
type UpdateRoomRequest struct {
	RoomNumber  string              `json:"room_number"   validate:"omitempty,notblank,max=20"`
	RoomType    string              `json:"room_type"     validate:"omitempty,notblank,max=50"`
	PricePerDay decimal.NullDecimal `json:"price_per_day" validate:"omitempty,gte=0"`
}

func (u *UpdateRoomRequest) ToFields(user string) map[string]any {
	fields := map[string]any{}

	if u.RoomNumber != "" {
		fields[model.FieldRoomNumber] = u.RoomNumber
	}

	if u.RoomType != "" {
		fields[model.FieldRoomType] = u.RoomType
	}

	if u.PricePerDay.Valid {
		fields[model.FieldPricePerDay] = u.PricePerDay.Decimal
	}

	return shared.Stamp(fields, user)
}

type MaintenanceRequest struct {
	Maintenance bool `json:"maintenance"`
}

type RoomResponse struct {
	ID          string          `json:"id"`
	RoomNumber  string          `json:"room_number"`
	RoomType    string          `json:"room_type"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Status      string          `json:"status"`
	gDto.Audit
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.PricePerDay = model.PricePerDay
	r.Status = model.Status
	r.Audit = gDto.AuditOf(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailableRoomsRequest struct {
	RoomType string `json:"room_type" validate:"required,notblank"`
	CheckIn  string `json:"check_in"  validate:"required,calendardate"`
	CheckOut string `json:"check_out" validate:"required,calendardate"`
}
