package logistics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusConfirmed DeliveryStatus = "confirmed"
	DeliveryStatusRejected  DeliveryStatus = "rejected"
)

// PendingDelivery is stock in limbo: the driver claims it was dropped
// off, the shop has not yet confirmed it. Destination stock is credited
// only on confirmation, and only with the quantity the shop confirms.
// A delivery resolves exactly once.
type PendingDelivery struct {
	shared.BaseAggregateRoot
	TripStopID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"trip_stop_id"`
	ItemID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"item_id"`
	FromLocationID uuid.UUID       `gorm:"type:uuid;not null" json:"from_location_id"`
	ToLocationID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"to_location_id"`
	DriverID       uuid.UUID       `gorm:"type:uuid;not null" json:"driver_id"`
	ClaimedQty     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"claimed_qty"`
	ConfirmedQty   decimal.Decimal `gorm:"type:decimal(20,4)" json:"confirmed_qty"`
	Status         DeliveryStatus  `gorm:"size:16;index;not null" json:"status"`
	StockRequestID *uuid.UUID      `gorm:"type:uuid;index" json:"stock_request_id,omitempty"`
	Note           string          `gorm:"size:512" json:"note"`
	ResolvedBy     *uuid.UUID      `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
}

func (PendingDelivery) TableName() string {
	return "pending_deliveries"
}

func NewPendingDelivery(tripStopID, itemID, fromLocationID, toLocationID, driverID uuid.UUID, claimedQty decimal.Decimal) (*PendingDelivery, error) {
	if tripStopID == uuid.Nil {
		return nil, shared.NewValidationError("delivery trip stop is required")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("delivery item is required")
	}
	if fromLocationID == uuid.Nil || toLocationID == uuid.Nil {
		return nil, shared.NewValidationError("delivery locations are required")
	}
	if !claimedQty.IsPositive() {
		return nil, shared.NewValidationError("claimed quantity must be positive")
	}
	return &PendingDelivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TripStopID:        tripStopID,
		ItemID:            itemID,
		FromLocationID:    fromLocationID,
		ToLocationID:      toLocationID,
		DriverID:          driverID,
		ClaimedQty:        claimedQty,
		Status:            DeliveryStatusPending,
	}, nil
}

func (d *PendingDelivery) BindStockRequest(requestID uuid.UUID) {
	if requestID != uuid.Nil {
		d.StockRequestID = &requestID
	}
}

// Confirm resolves the delivery with the quantity the shop actually
// received. Any mismatch with the claim, under or over, is noted as a
// discrepancy; the ledger only ever gets the confirmed quantity.
func (d *PendingDelivery) Confirm(confirmedQty decimal.Decimal, actor uuid.UUID) error {
	if d.Status != DeliveryStatusPending {
		return shared.NewDomainErrorf(shared.ErrCodeAlreadyResolved,
			"delivery is already %s", d.Status)
	}
	if !confirmedQty.IsPositive() {
		return shared.NewValidationError("confirmed quantity must be positive")
	}
	now := time.Now()
	d.Status = DeliveryStatusConfirmed
	d.ConfirmedQty = confirmedQty
	d.ResolvedBy = &actor
	d.ResolvedAt = &now
	if !confirmedQty.Equal(d.ClaimedQty) {
		d.Note = fmt.Sprintf("discrepancy: claimed %s, confirmed %s", d.ClaimedQty, confirmedQty)
	}
	d.IncrementVersion()
	d.AddDomainEvent(NewDeliveryConfirmedEvent(d))
	return nil
}

// Reject resolves the delivery without crediting any stock.
func (d *PendingDelivery) Reject(reason string, actor uuid.UUID) error {
	if d.Status != DeliveryStatusPending {
		return shared.NewDomainErrorf(shared.ErrCodeAlreadyResolved,
			"delivery is already %s", d.Status)
	}
	now := time.Now()
	d.Status = DeliveryStatusRejected
	d.Note = reason
	d.ResolvedBy = &actor
	d.ResolvedAt = &now
	d.IncrementVersion()
	d.AddDomainEvent(NewDeliveryRejectedEvent(d, reason))
	return nil
}

func (d *PendingDelivery) HasDiscrepancy() bool {
	return d.Status == DeliveryStatusConfirmed && !d.ConfirmedQty.Equal(d.ClaimedQty)
}
