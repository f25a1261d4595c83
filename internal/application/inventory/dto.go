package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/inventory"
)

type ReceiveStockCommand struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Qty        decimal.Decimal `json:"qty" binding:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	ActorID    uuid.UUID       `json:"-"`
	Note       string          `json:"note"`
}

type IssueStockCommand struct {
	ItemID        uuid.UUID       `json:"item_id" binding:"required"`
	LocationID    uuid.UUID       `json:"location_id" binding:"required"`
	Qty           decimal.Decimal `json:"qty" binding:"required"`
	PinnedBatchID *uuid.UUID      `json:"pinned_batch_id,omitempty"`
	ActorID       uuid.UUID       `json:"-"`
	Note          string          `json:"note"`
}

type TransferStockCommand struct {
	ItemID         uuid.UUID       `json:"item_id" binding:"required"`
	FromLocationID uuid.UUID       `json:"from_location_id" binding:"required"`
	ToLocationID   uuid.UUID       `json:"to_location_id" binding:"required"`
	Qty            decimal.Decimal `json:"qty" binding:"required"`
	PinnedBatchID  *uuid.UUID      `json:"pinned_batch_id,omitempty"`
	ActorID        uuid.UUID       `json:"-"`
	Note           string          `json:"note"`
}

type WasteStockCommand struct {
	ItemID        uuid.UUID       `json:"item_id" binding:"required"`
	LocationID    uuid.UUID       `json:"location_id" binding:"required"`
	Qty           decimal.Decimal `json:"qty" binding:"required"`
	PinnedBatchID *uuid.UUID      `json:"pinned_batch_id,omitempty"`
	Reason        string          `json:"reason" binding:"required"`
	ActorID       uuid.UUID       `json:"-"`
}

type AdjustStockCommand struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	// Delta is signed: positive adds a correction batch, negative
	// draws down existing batches.
	Delta   decimal.Decimal `json:"delta" binding:"required"`
	Reason  string          `json:"reason" binding:"required"`
	ActorID uuid.UUID       `json:"-"`
}

type UndoTransactionCommand struct {
	TransactionID uuid.UUID `json:"-"`
	ActorID       uuid.UUID `json:"-"`
	// Force lets a supervisor undo another owner's transaction.
	Force bool `json:"force"`
}

// TransactionResult is what mutation operations hand back to callers.
type TransactionResult struct {
	Transaction *inventory.StockTransaction `json:"transaction"`
	BatchID     *uuid.UUID                  `json:"batch_id,omitempty"`
	FIFOWarning bool                        `json:"fifo_warning"`
}
