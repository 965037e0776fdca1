package model

import (
	"innkeep/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldRoomNumber  = "room_number"
	FieldRoomType    = "room_type"
	FieldPricePerDay = "price_per_day"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"
)

const (
	StatusAvailable   = "AVAILABLE"
	StatusOccupied    = "OCCUPIED"
	StatusReserved    = "RESERVED"
	StatusMaintenance = "MAINTENANCE"
)

// Room status is a projection of the claims held against it. Only the claim state
// machines move it, apart from the maintenance toggle.
type Room struct {
	ID          string          `db:"id"`
	RoomNumber  string          `db:"room_number"`
	RoomType    string          `db:"room_type"`
	PricePerDay decimal.Decimal `db:"price_per_day"`
	Status      string          `db:"status"`
	model.Metadata
}
