package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

type TransactionType string

const (
	TransactionTypeReceive    TransactionType = "receive"
	TransactionTypeIssue      TransactionType = "issue"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeWaste      TransactionType = "waste"
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeReturn     TransactionType = "return"
)

// BatchRef ties a transaction to the batch quantities it moved, so a
// reversal can restore exactly what was drawn.
type BatchRef struct {
	BatchID uuid.UUID       `json:"batch_id"`
	Qty     decimal.Decimal `json:"qty"`
}

// StockTransaction is one entry in the append-only movement ledger.
// Rows are never updated after creation except for the Reversed flag,
// which flips exactly once when an undo succeeds. Corrections are
// recorded as new reversal transactions, never edits.
type StockTransaction struct {
	shared.BaseAggregateRoot
	Type            TransactionType `gorm:"size:32;index;not null" json:"type"`
	ItemID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"item_id"`
	LocationID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"location_id"`
	LocationToID    *uuid.UUID      `gorm:"type:uuid" json:"location_to_id,omitempty"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty"`
	BatchRefs       []BatchRef      `gorm:"serializer:json;type:jsonb" json:"batch_refs"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"owner_id"`
	TripStopID      *uuid.UUID      `gorm:"type:uuid;index" json:"trip_stop_id,omitempty"`
	CreatedBatchID  *uuid.UUID      `gorm:"type:uuid" json:"created_batch_id,omitempty"`
	ReversibleUntil *time.Time      `json:"reversible_until,omitempty"`
	Reversed        bool            `gorm:"default:false" json:"reversed"`
	ReversalOfID    *uuid.UUID      `gorm:"type:uuid" json:"reversal_of_id,omitempty"`
	FIFOWarning     bool            `gorm:"default:false" json:"fifo_warning"`
	Note            string          `gorm:"size:512" json:"note"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}

func NewStockTransaction(txType TransactionType, itemID, locationID, ownerID uuid.UUID, qty decimal.Decimal) (*StockTransaction, error) {
	switch txType {
	case TransactionTypeReceive, TransactionTypeIssue, TransactionTypeTransfer,
		TransactionTypeWaste, TransactionTypeAdjustment, TransactionTypeReturn:
	default:
		return nil, shared.NewValidationError("unknown transaction type")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("transaction item is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("transaction location is required")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("transaction owner is required")
	}
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("transaction quantity must be positive")
	}
	return &StockTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              txType,
		ItemID:            itemID,
		LocationID:        locationID,
		OwnerID:           ownerID,
		Qty:               qty,
	}, nil
}

func (t *StockTransaction) WithDestination(locationToID uuid.UUID) *StockTransaction {
	if locationToID != uuid.Nil {
		t.LocationToID = &locationToID
	}
	return t
}

func (t *StockTransaction) WithBatchRefs(refs []BatchRef) *StockTransaction {
	t.BatchRefs = refs
	return t
}

// WithCreatedBatch records the batch a receive or transfer created at
// its destination, so a reversal knows where to draw the stock back.
func (t *StockTransaction) WithCreatedBatch(batchID uuid.UUID) *StockTransaction {
	if batchID != uuid.Nil {
		t.CreatedBatchID = &batchID
	}
	return t
}

func (t *StockTransaction) WithUndoWindow(until time.Time) *StockTransaction {
	t.ReversibleUntil = &until
	return t
}

func (t *StockTransaction) WithTripStop(stopID uuid.UUID) *StockTransaction {
	if stopID != uuid.Nil {
		t.TripStopID = &stopID
	}
	return t
}

func (t *StockTransaction) WithFIFOWarning(warn bool) *StockTransaction {
	t.FIFOWarning = warn
	return t
}

func (t *StockTransaction) WithNote(note string) *StockTransaction {
	t.Note = note
	return t
}

// CanReverse checks whether the transaction is still undoable at the
// given instant. The window is checked before the reversed flag: an
// expired transaction reports expiry even if it was already reversed.
func (t *StockTransaction) CanReverse(at time.Time) error {
	if t.ReversibleUntil == nil || !at.Before(*t.ReversibleUntil) {
		return shared.NewDomainError(shared.ErrCodeUndoWindowExpired, "undo window has expired")
	}
	if t.Reversed {
		return shared.NewDomainError(shared.ErrCodeAlreadyReversed, "transaction was already reversed")
	}
	if t.ReversalOfID != nil {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "a reversal cannot itself be reversed")
	}
	return nil
}

func (t *StockTransaction) IsOwnedBy(ownerID uuid.UUID) bool {
	return t.OwnerID == ownerID
}

// MarkReversed flips the only mutable column on the ledger row.
func (t *StockTransaction) MarkReversed() {
	t.Reversed = true
	t.IncrementVersion()
}

// NewReversalTransaction builds the compensating ledger entry for an
// undone transaction. Reversals are adjustments that point back at the
// original and carry no undo window of their own.
func NewReversalTransaction(original *StockTransaction, ownerID uuid.UUID) (*StockTransaction, error) {
	reversal, err := NewStockTransaction(TransactionTypeAdjustment, original.ItemID, original.LocationID, ownerID, original.Qty)
	if err != nil {
		return nil, err
	}
	reversal.ReversalOfID = &original.ID
	reversal.LocationToID = original.LocationToID
	reversal.BatchRefs = original.BatchRefs
	reversal.Note = "reversal of " + string(original.Type) + " " + original.ID.String()
	return reversal, nil
}
