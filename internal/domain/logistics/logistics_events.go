package logistics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

const (
	EventTypeTripStarted           = "logistics.trip_started"
	EventTypeTripCompleted         = "logistics.trip_completed"
	EventTypeTripCancelled         = "logistics.trip_cancelled"
	EventTypeStopCompleted         = "logistics.stop_completed"
	EventTypeDeliveryConfirmed     = "logistics.delivery_confirmed"
	EventTypeDeliveryRejected      = "logistics.delivery_rejected"
	EventTypeStockRequestFulfilled = "logistics.stock_request_fulfilled"
)

type TripStartedEvent struct {
	shared.BaseDomainEvent
	DriverID uuid.UUID `json:"driver_id"`
}

func NewTripStartedEvent(trip *Trip) *TripStartedEvent {
	return &TripStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTripStarted, trip.ID),
		DriverID:        trip.DriverID,
	}
}

type TripCompletedEvent struct {
	shared.BaseDomainEvent
	DriverID uuid.UUID `json:"driver_id"`
}

func NewTripCompletedEvent(trip *Trip) *TripCompletedEvent {
	return &TripCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTripCompleted, trip.ID),
		DriverID:        trip.DriverID,
	}
}

type TripCancelledEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

func NewTripCancelledEvent(trip *Trip, reason string) *TripCancelledEvent {
	return &TripCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTripCancelled, trip.ID),
		Reason:          reason,
	}
}

type StopCompletedEvent struct {
	shared.BaseDomainEvent
	StopID     uuid.UUID       `json:"stop_id"`
	StopType   StopType        `json:"stop_type"`
	LocationID uuid.UUID       `json:"location_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	ActualQty  decimal.Decimal `json:"actual_qty"`
}

func NewStopCompletedEvent(trip *Trip, stop *TripStop) *StopCompletedEvent {
	return &StopCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStopCompleted, trip.ID),
		StopID:          stop.ID,
		StopType:        stop.Type,
		LocationID:      stop.LocationID,
		ItemID:          stop.ItemID,
		ActualQty:       stop.ActualQty,
	}
}

type DeliveryConfirmedEvent struct {
	shared.BaseDomainEvent
	DeliveryID     uuid.UUID       `json:"delivery_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	ToLocationID   uuid.UUID       `json:"to_location_id"`
	ConfirmedQty   decimal.Decimal `json:"confirmed_qty"`
	StockRequestID *uuid.UUID      `json:"stock_request_id,omitempty"`
	Discrepancy    bool            `json:"discrepancy"`
}

func NewDeliveryConfirmedEvent(delivery *PendingDelivery) *DeliveryConfirmedEvent {
	return &DeliveryConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryConfirmed, delivery.ID),
		DeliveryID:      delivery.ID,
		ItemID:          delivery.ItemID,
		ToLocationID:    delivery.ToLocationID,
		ConfirmedQty:    delivery.ConfirmedQty,
		StockRequestID:  delivery.StockRequestID,
		Discrepancy:     delivery.HasDiscrepancy(),
	}
}

type DeliveryRejectedEvent struct {
	shared.BaseDomainEvent
	DeliveryID     uuid.UUID  `json:"delivery_id"`
	StockRequestID *uuid.UUID `json:"stock_request_id,omitempty"`
	Reason         string     `json:"reason"`
}

func NewDeliveryRejectedEvent(delivery *PendingDelivery, reason string) *DeliveryRejectedEvent {
	return &DeliveryRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryRejected, delivery.ID),
		DeliveryID:      delivery.ID,
		StockRequestID:  delivery.StockRequestID,
		Reason:          reason,
	}
}

type StockRequestFulfilledEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID `json:"item_id"`
	LocationID uuid.UUID `json:"location_id"`
}

func NewStockRequestFulfilledEvent(request *StockRequest) *StockRequestFulfilledEvent {
	return &StockRequestFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRequestFulfilled, request.ID),
		ItemID:          request.ItemID,
		LocationID:      request.LocationID,
	}
}
