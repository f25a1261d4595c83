package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/logistics"
)

type PlanStopCommand struct {
	Type           logistics.StopType `json:"type" binding:"required"`
	LocationID     uuid.UUID          `json:"location_id" binding:"required"`
	ItemID         uuid.UUID          `json:"item_id" binding:"required"`
	PlannedQty     decimal.Decimal    `json:"planned_qty" binding:"required"`
	StockRequestID *uuid.UUID         `json:"stock_request_id,omitempty"`
}

type PlanTripCommand struct {
	Reference  string            `json:"reference" binding:"required"`
	DriverID   uuid.UUID         `json:"driver_id" binding:"required"`
	VehicleID  uuid.UUID         `json:"vehicle_id" binding:"required"`
	PlannedFor time.Time         `json:"planned_for"`
	Stops      []PlanStopCommand `json:"stops" binding:"required,min=1,dive"`
}

type CompleteStopCommand struct {
	TripID    uuid.UUID       `json:"-"`
	StopID    uuid.UUID       `json:"-"`
	ActualQty decimal.Decimal `json:"actual_qty" binding:"required"`
	ActorID   uuid.UUID       `json:"-"`
	Note      string          `json:"note"`
}

// CompleteStopResult reports the outcome of servicing a stop: the trip
// with its refreshed stop list, whether this was the closing stop, and
// the delivery a dropoff opened.
type CompleteStopResult struct {
	Trip              *logistics.Trip `json:"trip"`
	TripCompleted     bool            `json:"trip_completed"`
	PendingDeliveryID *uuid.UUID      `json:"pending_delivery_id,omitempty"`
}

type ConfirmDeliveryCommand struct {
	DeliveryID   uuid.UUID       `json:"-"`
	ConfirmedQty decimal.Decimal `json:"confirmed_qty" binding:"required"`
	ActorID      uuid.UUID       `json:"-"`
}

type RejectDeliveryCommand struct {
	DeliveryID uuid.UUID `json:"-"`
	Reason     string    `json:"reason" binding:"required"`
	ActorID    uuid.UUID `json:"-"`
}

type CreateStockRequestCommand struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	LocationID  uuid.UUID       `json:"location_id" binding:"required"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	Note        string          `json:"note"`
	RequestedBy uuid.UUID       `json:"-"`
}
