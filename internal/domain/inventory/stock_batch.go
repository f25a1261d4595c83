package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

// StockBatch is one lot of an item at a location, identified by when it
// was received. Remaining quantity only ever moves between zero and the
// initial quantity; drained batches are kept for audit, never deleted.
type StockBatch struct {
	shared.BaseAggregateRoot
	ItemID       uuid.UUID       `gorm:"type:uuid;index:idx_batches_item_location;not null" json:"item_id"`
	LocationID   uuid.UUID       `gorm:"type:uuid;index:idx_batches_item_location;not null" json:"location_id"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid" json:"supplier_id,omitempty"`
	InitialQty   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"initial_qty"`
	RemainingQty decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"remaining_qty"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(20,4)" json:"unit_cost"`
	ReceivedAt   time.Time       `gorm:"index;not null" json:"received_at"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
}

func (StockBatch) TableName() string {
	return "stock_batches"
}

func NewStockBatch(itemID, locationID uuid.UUID, qty, unitCost decimal.Decimal, receivedAt time.Time) (*StockBatch, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("batch item is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("batch location is required")
	}
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("batch quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("unit cost cannot be negative")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	return &StockBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            itemID,
		LocationID:        locationID,
		InitialQty:        qty,
		RemainingQty:      qty,
		UnitCost:          unitCost,
		ReceivedAt:        receivedAt,
	}, nil
}

func (b *StockBatch) WithSupplier(supplierID uuid.UUID) *StockBatch {
	if supplierID != uuid.Nil {
		b.SupplierID = &supplierID
	}
	return b
}

func (b *StockBatch) WithExpiry(expiresAt time.Time) *StockBatch {
	if !expiresAt.IsZero() {
		b.ExpiresAt = &expiresAt
	}
	return b
}

// Draw removes qty from the batch. The caller is responsible for having
// planned the allocation; Draw still refuses to go negative.
func (b *StockBatch) Draw(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("draw quantity must be positive")
	}
	if qty.GreaterThan(b.RemainingQty) {
		return shared.NewDomainErrorf(shared.ErrCodeInsufficientStock,
			"batch %s has %s remaining, cannot draw %s", b.ID, b.RemainingQty, qty)
	}
	b.RemainingQty = b.RemainingQty.Sub(qty)
	b.IncrementVersion()
	return nil
}

// Restore puts qty back into the batch, used when a transaction is
// reversed. Remaining quantity is capped at the initial quantity.
func (b *StockBatch) Restore(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("restore quantity must be positive")
	}
	restored := b.RemainingQty.Add(qty)
	if restored.GreaterThan(b.InitialQty) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"restoring %s would exceed batch %s initial quantity", qty, b.ID)
	}
	b.RemainingQty = restored
	b.IncrementVersion()
	return nil
}

func (b *StockBatch) IsDrained() bool {
	return b.RemainingQty.IsZero()
}

func (b *StockBatch) IsExpired(at time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(at)
}
