package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

// StockSummary is an on-hand rollup per item and location.
type StockSummary struct {
	ItemID     uuid.UUID       `json:"item_id"`
	LocationID uuid.UUID       `json:"location_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	BatchCount int             `json:"batch_count"`
	OldestAt   *time.Time      `json:"oldest_at,omitempty"`
}

type StockBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)
	// FindForAllocation returns the batches with stock remaining for an
	// item at a location, oldest received first, locked for update.
	FindForAllocation(ctx context.Context, itemID, locationID uuid.UUID) ([]*StockBatch, error)
	FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) ([]*StockBatch, error)
	FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*StockBatch, error)
	Summarize(ctx context.Context, locationID uuid.UUID) ([]*StockSummary, error)
	Save(ctx context.Context, batch *StockBatch) error
	// SaveWithLock persists the batch only if its stored version still
	// matches, bumping the version on success.
	SaveWithLock(ctx context.Context, batch *StockBatch, expectedVersion int) error
}

// TransactionFilter narrows ledger history queries.
type TransactionFilter struct {
	ItemID     *uuid.UUID
	LocationID *uuid.UUID
	OwnerID    *uuid.UUID
	Type       *TransactionType
	From       *time.Time
	To         *time.Time
	Pagination shared.Pagination
}

type StockTransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*StockTransaction, int64, error)
	Save(ctx context.Context, tx *StockTransaction) error
	// MarkReversed flips the reversed flag if and only if it is still
	// false, returning a conflict when another undo won the race.
	MarkReversed(ctx context.Context, id uuid.UUID) error
}
