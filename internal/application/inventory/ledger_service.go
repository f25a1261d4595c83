package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockyard/backend/internal/domain/catalog"
	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/shared"
)

// LedgerService owns all stock movements. Every mutation runs in a
// transaction scope so batch updates and the ledger entry land
// together, and every outbound movement goes through batch allocation.
type LedgerService struct {
	scope      TransactionScope
	locations  catalog.LocationRepository
	items      catalog.ItemRepository
	eventBus   shared.EventBus
	logger     *zap.Logger
	undoWindow time.Duration
}

func NewLedgerService(
	scope TransactionScope,
	locations catalog.LocationRepository,
	items catalog.ItemRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
	undoWindow time.Duration,
) *LedgerService {
	return &LedgerService{
		scope:      scope,
		locations:  locations,
		items:      items,
		eventBus:   eventBus,
		logger:     logger,
		undoWindow: undoWindow,
	}
}

// Receive books incoming stock as a new batch and a receive entry.
func (s *LedgerService) Receive(ctx context.Context, cmd ReceiveStockCommand) (*TransactionResult, error) {
	if _, err := s.items.FindByID(ctx, cmd.ItemID); err != nil {
		return nil, err
	}
	batch, err := inventory.NewStockBatch(cmd.ItemID, cmd.LocationID, cmd.Qty, cmd.UnitCost, time.Now())
	if err != nil {
		return nil, err
	}
	if cmd.SupplierID != nil {
		batch.WithSupplier(*cmd.SupplierID)
	}
	if cmd.ExpiresAt != nil {
		batch.WithExpiry(*cmd.ExpiresAt)
	}

	tx, err := inventory.NewStockTransaction(inventory.TransactionTypeReceive, cmd.ItemID, cmd.LocationID, cmd.ActorID, cmd.Qty)
	if err != nil {
		return nil, err
	}
	tx.WithBatchRefs([]inventory.BatchRef{{BatchID: batch.ID, Qty: cmd.Qty}}).
		WithCreatedBatch(batch.ID).
		WithUndoWindow(time.Now().Add(s.undoWindow)).
		WithNote(cmd.Note)

	err = s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}
		return repos.Transactions().Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock received",
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("location_id", cmd.LocationID.String()),
		zap.String("qty", cmd.Qty.String()),
		zap.String("batch_id", batch.ID.String()))
	s.publish(ctx, inventory.NewStockReceivedEvent(tx, batch.ID))

	return &TransactionResult{Transaction: tx, BatchID: &batch.ID}, nil
}

// Issue draws stock out of a location, oldest batches first unless a
// batch is pinned. All or nothing: a short location fails the whole
// command.
func (s *LedgerService) Issue(ctx context.Context, cmd IssueStockCommand) (*TransactionResult, error) {
	tx, err := inventory.NewStockTransaction(inventory.TransactionTypeIssue, cmd.ItemID, cmd.LocationID, cmd.ActorID, cmd.Qty)
	if err != nil {
		return nil, err
	}
	tx.WithUndoWindow(time.Now().Add(s.undoWindow)).WithNote(cmd.Note)

	if err := s.drawAndRecord(ctx, tx, cmd.PinnedBatchID); err != nil {
		return nil, err
	}

	s.logger.Info("stock issued",
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("location_id", cmd.LocationID.String()),
		zap.String("qty", cmd.Qty.String()),
		zap.Bool("fifo_warning", tx.FIFOWarning))
	s.publish(ctx, inventory.NewStockIssuedEvent(tx))
	s.checkThreshold(ctx, cmd.ItemID, cmd.LocationID)

	return &TransactionResult{Transaction: tx, FIFOWarning: tx.FIFOWarning}, nil
}

// Waste books spoiled or damaged stock out of a location.
func (s *LedgerService) Waste(ctx context.Context, cmd WasteStockCommand) (*TransactionResult, error) {
	tx, err := inventory.NewStockTransaction(inventory.TransactionTypeWaste, cmd.ItemID, cmd.LocationID, cmd.ActorID, cmd.Qty)
	if err != nil {
		return nil, err
	}
	tx.WithUndoWindow(time.Now().Add(s.undoWindow)).WithNote(cmd.Reason)

	if err := s.drawAndRecord(ctx, tx, cmd.PinnedBatchID); err != nil {
		return nil, err
	}

	s.logger.Info("stock wasted",
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("qty", cmd.Qty.String()),
		zap.String("reason", cmd.Reason))
	s.checkThreshold(ctx, cmd.ItemID, cmd.LocationID)

	return &TransactionResult{Transaction: tx, FIFOWarning: tx.FIFOWarning}, nil
}

// Transfer moves stock between locations: batches are drawn at the
// origin and the moved quantity arrives as one new batch at the
// destination, received now.
func (s *LedgerService) Transfer(ctx context.Context, cmd TransferStockCommand) (*TransactionResult, error) {
	if cmd.FromLocationID == cmd.ToLocationID {
		return nil, shared.NewValidationError("transfer origin and destination must differ")
	}
	tx, err := inventory.NewStockTransaction(inventory.TransactionTypeTransfer, cmd.ItemID, cmd.FromLocationID, cmd.ActorID, cmd.Qty)
	if err != nil {
		return nil, err
	}
	tx.WithDestination(cmd.ToLocationID).
		WithUndoWindow(time.Now().Add(s.undoWindow)).
		WithNote(cmd.Note)

	var destBatch *inventory.StockBatch
	err = s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		_, drawn, err := s.draw(ctx, repos, tx, cmd.PinnedBatchID)
		if err != nil {
			return err
		}

		// weighted average cost of the drawn batches carries over
		destBatch, err = inventory.NewStockBatch(cmd.ItemID, cmd.ToLocationID, cmd.Qty, averageUnitCost(drawn, tx.BatchRefs), time.Now())
		if err != nil {
			return err
		}
		tx.WithCreatedBatch(destBatch.ID)
		if err := repos.Batches().Save(ctx, destBatch); err != nil {
			return err
		}
		return repos.Transactions().Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock transferred",
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("from", cmd.FromLocationID.String()),
		zap.String("to", cmd.ToLocationID.String()),
		zap.String("qty", cmd.Qty.String()))
	s.publish(ctx, inventory.NewStockTransferredEvent(tx))
	s.checkThreshold(ctx, cmd.ItemID, cmd.FromLocationID)

	return &TransactionResult{Transaction: tx, BatchID: &destBatch.ID, FIFOWarning: tx.FIFOWarning}, nil
}

// Adjust corrects on-hand stock after a physical count. Positive deltas
// arrive as a correction batch, negative deltas drain batches in FIFO
// order. Adjustments carry no undo window; a wrong adjustment is fixed
// by another adjustment.
func (s *LedgerService) Adjust(ctx context.Context, cmd AdjustStockCommand) (*TransactionResult, error) {
	if cmd.Delta.IsZero() {
		return nil, shared.NewValidationError("adjustment delta cannot be zero")
	}

	qty := cmd.Delta.Abs()
	tx, err := inventory.NewStockTransaction(inventory.TransactionTypeAdjustment, cmd.ItemID, cmd.LocationID, cmd.ActorID, qty)
	if err != nil {
		return nil, err
	}
	tx.WithNote(cmd.Reason)

	var createdBatch *inventory.StockBatch
	err = s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		if cmd.Delta.IsPositive() {
			createdBatch, err = inventory.NewStockBatch(cmd.ItemID, cmd.LocationID, qty, decimal.Zero, time.Now())
			if err != nil {
				return err
			}
			tx.WithBatchRefs([]inventory.BatchRef{{BatchID: createdBatch.ID, Qty: qty}}).
				WithCreatedBatch(createdBatch.ID)
			if err := repos.Batches().Save(ctx, createdBatch); err != nil {
				return err
			}
		} else {
			if _, _, err := s.draw(ctx, repos, tx, nil); err != nil {
				return err
			}
		}
		return repos.Transactions().Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("item_id", cmd.ItemID.String()),
		zap.String("delta", cmd.Delta.String()),
		zap.String("reason", cmd.Reason))
	s.checkThreshold(ctx, cmd.ItemID, cmd.LocationID)

	result := &TransactionResult{Transaction: tx}
	if createdBatch != nil {
		result.BatchID = &createdBatch.ID
	}
	return result, nil
}

// Undo reverses a ledger entry inside its undo window. The original row
// keeps everything but its reversed flag; the stock movement is
// compensated by a new adjustment entry.
func (s *LedgerService) Undo(ctx context.Context, cmd UndoTransactionCommand) (*TransactionResult, error) {
	var reversal *inventory.StockTransaction
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		original, err := repos.Transactions().FindByID(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}
		if err := original.CanReverse(time.Now()); err != nil {
			return err
		}
		if !cmd.Force && !original.IsOwnedBy(cmd.ActorID) {
			return shared.NewDomainError(shared.ErrCodeNotOwner, "only the transaction owner can undo it")
		}

		// the CAS on the reversed flag decides races between two undos
		if err := repos.Transactions().MarkReversed(ctx, original.ID); err != nil {
			return err
		}

		if err := s.compensate(ctx, repos, original); err != nil {
			return err
		}

		reversal, err = inventory.NewReversalTransaction(original, cmd.ActorID)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Save(ctx, reversal); err != nil {
			return err
		}

		s.publish(ctx, inventory.NewTransactionReversedEvent(original, reversal))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction reversed",
		zap.String("original_id", cmd.TransactionID.String()),
		zap.String("reversal_id", reversal.ID.String()))
	return &TransactionResult{Transaction: reversal}, nil
}

// compensate undoes the stock effect of a transaction batch by batch.
func (s *LedgerService) compensate(ctx context.Context, repos ScopedRepositories, original *inventory.StockTransaction) error {
	switch original.Type {
	case inventory.TransactionTypeReceive:
		// draw the received quantity back out of the batch it created
		return s.drawBackCreatedBatch(ctx, repos, original)
	case inventory.TransactionTypeIssue, inventory.TransactionTypeWaste:
		return s.restoreRefs(ctx, repos, original.BatchRefs)
	case inventory.TransactionTypeTransfer:
		if err := s.drawBackCreatedBatch(ctx, repos, original); err != nil {
			return err
		}
		return s.restoreRefs(ctx, repos, original.BatchRefs)
	default:
		return shared.NewDomainErrorf(shared.ErrCodeInvalidState,
			"%s transactions cannot be reversed", original.Type)
	}
}

func (s *LedgerService) drawBackCreatedBatch(ctx context.Context, repos ScopedRepositories, original *inventory.StockTransaction) error {
	if original.CreatedBatchID == nil {
		return shared.NewDomainError(shared.ErrCodeInvalidState, "transaction has no created batch to draw back")
	}
	batch, err := repos.Batches().FindByID(ctx, *original.CreatedBatchID)
	if err != nil {
		return err
	}
	expected := batch.GetVersion()
	if err := batch.Draw(original.Qty); err != nil {
		// stock from the batch was already consumed downstream
		return err
	}
	return repos.Batches().SaveWithLock(ctx, batch, expected)
}

func (s *LedgerService) restoreRefs(ctx context.Context, repos ScopedRepositories, refs []inventory.BatchRef) error {
	for _, ref := range refs {
		batch, err := repos.Batches().FindByID(ctx, ref.BatchID)
		if err != nil {
			return err
		}
		expected := batch.GetVersion()
		if err := batch.Restore(ref.Qty); err != nil {
			return err
		}
		if err := repos.Batches().SaveWithLock(ctx, batch, expected); err != nil {
			return err
		}
	}
	return nil
}

// drawAndRecord plans, draws and persists an outbound movement plus its
// ledger entry in one scope.
func (s *LedgerService) drawAndRecord(ctx context.Context, tx *inventory.StockTransaction, pinnedBatchID *uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		if _, _, err := s.draw(ctx, repos, tx, pinnedBatchID); err != nil {
			return err
		}
		return repos.Transactions().Save(ctx, tx)
	})
}

func (s *LedgerService) draw(ctx context.Context, repos ScopedRepositories, tx *inventory.StockTransaction, pinnedBatchID *uuid.UUID) (*inventory.AllocationPlan, []*inventory.StockBatch, error) {
	batches, err := repos.Batches().FindForAllocation(ctx, tx.ItemID, tx.LocationID)
	if err != nil {
		return nil, nil, err
	}
	plan, err := inventory.PlanAllocation(batches, tx.Qty, pinnedBatchID)
	if err != nil {
		return nil, nil, err
	}

	versions := make(map[uuid.UUID]int, len(batches))
	for _, batch := range batches {
		versions[batch.ID] = batch.GetVersion()
	}
	if err := inventory.ApplyAllocation(plan, batches); err != nil {
		return nil, nil, err
	}

	refs := make([]inventory.BatchRef, 0, len(plan.Allocations))
	for _, alloc := range plan.Allocations {
		refs = append(refs, inventory.BatchRef(alloc))
	}
	tx.WithBatchRefs(refs).WithFIFOWarning(plan.FIFOWarning)

	for _, batch := range batches {
		if batch.GetVersion() == versions[batch.ID] {
			continue
		}
		if err := repos.Batches().SaveWithLock(ctx, batch, versions[batch.ID]); err != nil {
			return nil, nil, err
		}
	}
	return plan, batches, nil
}

func averageUnitCost(batches []*inventory.StockBatch, refs []inventory.BatchRef) decimal.Decimal {
	byID := make(map[uuid.UUID]*inventory.StockBatch, len(batches))
	for _, batch := range batches {
		byID[batch.ID] = batch
	}
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, ref := range refs {
		batch, ok := byID[ref.BatchID]
		if !ok {
			continue
		}
		totalQty = totalQty.Add(ref.Qty)
		totalCost = totalCost.Add(ref.Qty.Mul(batch.UnitCost))
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(totalQty).Round(4)
}

// checkThreshold publishes a low-stock event when an outbound movement
// leaves the item at or under the location's thresholds. Failures here
// never fail the movement itself.
func (s *LedgerService) checkThreshold(ctx context.Context, itemID, locationID uuid.UUID) {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		s.logger.Warn("threshold check skipped", zap.Error(err))
		return
	}
	if location.CriticalThreshold.IsZero() && location.LowThreshold.IsZero() {
		return
	}

	var onHand decimal.Decimal
	err = s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		batches, err := repos.Batches().FindByItemAndLocation(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		onHand = inventory.TotalRemaining(batches)
		return nil
	})
	if err != nil {
		s.logger.Warn("threshold check skipped", zap.Error(err))
		return
	}

	if level := location.StockLevel(onHand); level != "ok" {
		s.publish(ctx, inventory.NewStockBelowThresholdEvent(itemID, locationID, onHand, level))
	}
}

func (s *LedgerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("event publish failed", zap.Error(err))
	}
}
