package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

const (
	EventTypeStockReceived       = "inventory.stock_received"
	EventTypeStockIssued         = "inventory.stock_issued"
	EventTypeStockTransferred    = "inventory.stock_transferred"
	EventTypeTransactionReversed = "inventory.transaction_reversed"
	EventTypeStockBelowThreshold = "inventory.stock_below_threshold"
)

type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Qty        decimal.Decimal `json:"qty"`
	BatchID    uuid.UUID       `json:"batch_id"`
}

func NewStockReceivedEvent(tx *StockTransaction, batchID uuid.UUID) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, tx.ID),
		ItemID:          tx.ItemID,
		LocationID:      tx.LocationID,
		Qty:             tx.Qty,
		BatchID:         batchID,
	}
}

type StockIssuedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	Qty         decimal.Decimal `json:"qty"`
	FIFOWarning bool            `json:"fifo_warning"`
}

func NewStockIssuedEvent(tx *StockTransaction) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, tx.ID),
		ItemID:          tx.ItemID,
		LocationID:      tx.LocationID,
		Qty:             tx.Qty,
		FIFOWarning:     tx.FIFOWarning,
	}
}

type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ItemID         uuid.UUID       `json:"item_id"`
	FromLocationID uuid.UUID       `json:"from_location_id"`
	ToLocationID   uuid.UUID       `json:"to_location_id"`
	Qty            decimal.Decimal `json:"qty"`
}

func NewStockTransferredEvent(tx *StockTransaction) *StockTransferredEvent {
	event := &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, tx.ID),
		ItemID:          tx.ItemID,
		FromLocationID:  tx.LocationID,
		Qty:             tx.Qty,
	}
	if tx.LocationToID != nil {
		event.ToLocationID = *tx.LocationToID
	}
	return event
}

type TransactionReversedEvent struct {
	shared.BaseDomainEvent
	OriginalID uuid.UUID       `json:"original_id"`
	ReversalID uuid.UUID       `json:"reversal_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Qty        decimal.Decimal `json:"qty"`
}

func NewTransactionReversedEvent(original, reversal *StockTransaction) *TransactionReversedEvent {
	return &TransactionReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionReversed, original.ID),
		OriginalID:      original.ID,
		ReversalID:      reversal.ID,
		ItemID:          original.ItemID,
		LocationID:      original.LocationID,
		Qty:             original.Qty,
	}
}

type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Level      string          `json:"level"`
}

func NewStockBelowThresholdEvent(itemID, locationID uuid.UUID, onHand decimal.Decimal, level string) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, itemID),
		ItemID:          itemID,
		LocationID:      locationID,
		OnHand:          onHand,
		Level:           level,
	}
}
