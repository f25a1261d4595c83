package logistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

type StopType string

const (
	StopTypePickup  StopType = "pickup"
	StopTypeDropoff StopType = "dropoff"
)

type StopStatus string

const (
	StopStatusPending   StopStatus = "pending"
	StopStatusArrived   StopStatus = "arrived"
	StopStatusCompleted StopStatus = "completed"
	StopStatusSkipped   StopStatus = "skipped"
)

// TripStop is one visit within a trip. Pickups load stock onto the
// vehicle at a warehouse; dropoffs unload at a shop and leave a pending
// delivery behind for the shop to confirm.
type TripStop struct {
	shared.BaseEntity
	TripID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"trip_id"`
	Sequence   int             `gorm:"not null" json:"sequence"`
	Type       StopType        `gorm:"size:16;not null" json:"type"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null" json:"location_id"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null" json:"item_id"`
	PlannedQty decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"planned_qty"`
	ActualQty  decimal.Decimal `gorm:"type:decimal(20,4)" json:"actual_qty"`
	// StockRequestID ties a dropoff to the shop request it fulfils.
	StockRequestID *uuid.UUID `gorm:"type:uuid" json:"stock_request_id,omitempty"`
	Status         StopStatus `gorm:"size:16;not null" json:"status"`
	Note           string     `gorm:"size:512" json:"note"`
	ArrivedAt      *time.Time `json:"arrived_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func (TripStop) TableName() string {
	return "trip_stops"
}

func newTripStop(tripID uuid.UUID, sequence int, stopType StopType, locationID, itemID uuid.UUID, plannedQty decimal.Decimal) (*TripStop, error) {
	switch stopType {
	case StopTypePickup, StopTypeDropoff:
	default:
		return nil, shared.NewValidationError("stop type must be pickup or dropoff")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("stop location is required")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("stop item is required")
	}
	if !plannedQty.IsPositive() {
		return nil, shared.NewValidationError("planned quantity must be positive")
	}
	return &TripStop{
		BaseEntity: shared.NewBaseEntity(),
		TripID:     tripID,
		Sequence:   sequence,
		Type:       stopType,
		LocationID: locationID,
		ItemID:     itemID,
		PlannedQty: plannedQty,
		Status:     StopStatusPending,
	}, nil
}

func (s *TripStop) arrive() error {
	if s.Status != StopStatusPending {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"stop %d is %s, cannot arrive", s.Sequence, s.Status)
	}
	now := time.Now()
	s.Status = StopStatusArrived
	s.ArrivedAt = &now
	s.Touch()
	return nil
}

func (s *TripStop) complete(actualQty decimal.Decimal) error {
	switch s.Status {
	case StopStatusPending, StopStatusArrived:
	case StopStatusCompleted:
		return shared.NewDomainError(shared.ErrCodeAlreadyCompleted, "stop is already completed")
	default:
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"stop %d is %s, cannot complete", s.Sequence, s.Status)
	}
	if !actualQty.IsPositive() {
		return shared.NewValidationError("actual quantity must be positive")
	}
	now := time.Now()
	s.Status = StopStatusCompleted
	s.ActualQty = actualQty
	s.CompletedAt = &now
	s.Touch()
	return nil
}

func (s *TripStop) skip(reason string) error {
	switch s.Status {
	case StopStatusPending, StopStatusArrived:
	default:
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"stop %d is %s, cannot skip", s.Sequence, s.Status)
	}
	s.Status = StopStatusSkipped
	s.Note = reason
	s.Touch()
	return nil
}

func (s *TripStop) isResolved() bool {
	return s.Status == StopStatusCompleted || s.Status == StopStatusSkipped
}
