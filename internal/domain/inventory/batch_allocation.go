package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockyard/backend/internal/domain/shared"
)

// BatchAllocation records how much of an outbound quantity is drawn
// from one batch.
type BatchAllocation struct {
	BatchID uuid.UUID       `json:"batch_id"`
	Qty     decimal.Decimal `json:"qty"`
}

// AllocationPlan is the result of planning an outbound movement against
// the available batches. FIFOWarning is advisory: it flags a pinned
// draw that skipped older stock, it never blocks the operation.
type AllocationPlan struct {
	Allocations []BatchAllocation
	FIFOWarning bool
}

func (p AllocationPlan) TotalQty() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Qty)
	}
	return total
}

// PlanAllocation decides which batches an outbound quantity comes from.
// Batches must be ordered oldest received first. The default policy
// drains batches in that order; pinning a batch draws the full quantity
// from it instead. Planning is all or nothing: if the stock cannot
// cover the quantity, no partial plan is returned.
func PlanAllocation(batches []*StockBatch, qty decimal.Decimal, pinnedBatchID *uuid.UUID) (*AllocationPlan, error) {
	if !qty.IsPositive() {
		return nil, shared.NewValidationError("allocation quantity must be positive")
	}

	if pinnedBatchID != nil {
		return planPinned(batches, qty, *pinnedBatchID)
	}
	return planFIFO(batches, qty)
}

func planFIFO(batches []*StockBatch, qty decimal.Decimal) (*AllocationPlan, error) {
	plan := &AllocationPlan{}
	remaining := qty
	for _, batch := range batches {
		if batch.RemainingQty.IsZero() {
			continue
		}
		take := decimal.Min(batch.RemainingQty, remaining)
		plan.Allocations = append(plan.Allocations, BatchAllocation{BatchID: batch.ID, Qty: take})
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			return plan, nil
		}
	}
	return nil, shared.NewDomainErrorf(shared.ErrCodeInsufficientStock,
		"requested %s but only %s available", qty, qty.Sub(remaining))
}

func planPinned(batches []*StockBatch, qty decimal.Decimal, pinnedID uuid.UUID) (*AllocationPlan, error) {
	var pinned *StockBatch
	var oldestWithStock *StockBatch
	for _, batch := range batches {
		if oldestWithStock == nil && batch.RemainingQty.IsPositive() {
			oldestWithStock = batch
		}
		if batch.ID == pinnedID {
			pinned = batch
		}
	}
	if pinned == nil {
		return nil, shared.NewNotFoundError("pinned batch")
	}
	if qty.GreaterThan(pinned.RemainingQty) {
		return nil, shared.NewDomainErrorf(shared.ErrCodeInsufficientStock,
			"pinned batch has %s remaining, requested %s", pinned.RemainingQty, qty)
	}
	return &AllocationPlan{
		Allocations: []BatchAllocation{{BatchID: pinnedID, Qty: qty}},
		FIFOWarning: oldestWithStock != nil && oldestWithStock.ID != pinnedID,
	}, nil
}

// ApplyAllocation draws the planned quantities from the batches. The
// batch slice must contain every batch the plan references.
func ApplyAllocation(plan *AllocationPlan, batches []*StockBatch) error {
	byID := make(map[uuid.UUID]*StockBatch, len(batches))
	for _, batch := range batches {
		byID[batch.ID] = batch
	}
	for _, alloc := range plan.Allocations {
		batch, ok := byID[alloc.BatchID]
		if !ok {
			return shared.NewNotFoundError("allocated batch")
		}
		if err := batch.Draw(alloc.Qty); err != nil {
			return err
		}
	}
	return nil
}

// TotalRemaining sums the remaining quantity across batches.
func TotalRemaining(batches []*StockBatch) decimal.Decimal {
	total := decimal.Zero
	for _, batch := range batches {
		total = total.Add(batch.RemainingQty)
	}
	return total
}
