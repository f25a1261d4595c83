package logistics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domaininv "github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

// DeliveryService resolves pending deliveries. Confirmation is the
// moment stock actually moves: the confirmed quantity is drawn from the
// origin's batches and credited to the destination as a new batch, all
// inside one transaction with the delivery's status flip. Rejection
// moves nothing.
type DeliveryService struct {
	scope    TransactionScope
	eventBus shared.EventBus
	logger   *zap.Logger
}

func NewDeliveryService(scope TransactionScope, eventBus shared.EventBus, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{scope: scope, eventBus: eventBus, logger: logger}
}

func (s *DeliveryService) ListPending(ctx context.Context, locationID uuid.UUID) ([]*logistics.PendingDelivery, error) {
	var deliveries []*logistics.PendingDelivery
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		deliveries, err = repos.Deliveries().FindPendingByLocation(ctx, locationID)
		return err
	})
	return deliveries, err
}

func (s *DeliveryService) Get(ctx context.Context, deliveryID uuid.UUID) (*logistics.PendingDelivery, error) {
	var delivery *logistics.PendingDelivery
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		delivery, err = repos.Deliveries().FindByID(ctx, deliveryID)
		return err
	})
	return delivery, err
}

// Confirm credits the confirmed quantity, which may be below the
// driver's claim. Only one resolution wins; the conditional update on
// the pending status settles races.
func (s *DeliveryService) Confirm(ctx context.Context, cmd ConfirmDeliveryCommand) (*logistics.PendingDelivery, error) {
	var delivery *logistics.PendingDelivery
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		delivery, err = repos.Deliveries().FindByID(ctx, cmd.DeliveryID)
		if err != nil {
			return err
		}
		if err := delivery.Confirm(cmd.ConfirmedQty, cmd.ActorID); err != nil {
			return err
		}
		if err := repos.Deliveries().Resolve(ctx, delivery); err != nil {
			return err
		}
		return s.moveStock(ctx, repos, delivery)
	})
	if err != nil {
		return nil, err
	}

	s.drainEvents(ctx, delivery)
	s.logger.Info("delivery confirmed",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("confirmed_qty", delivery.ConfirmedQty.String()),
		zap.Bool("discrepancy", delivery.HasDiscrepancy()))
	return delivery, nil
}

func (s *DeliveryService) Reject(ctx context.Context, cmd RejectDeliveryCommand) (*logistics.PendingDelivery, error) {
	var delivery *logistics.PendingDelivery
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		delivery, err = repos.Deliveries().FindByID(ctx, cmd.DeliveryID)
		if err != nil {
			return err
		}
		if err := delivery.Reject(cmd.Reason, cmd.ActorID); err != nil {
			return err
		}
		return repos.Deliveries().Resolve(ctx, delivery)
	})
	if err != nil {
		return nil, err
	}

	s.drainEvents(ctx, delivery)
	s.logger.Info("delivery rejected",
		zap.String("delivery_id", delivery.ID.String()),
		zap.String("reason", cmd.Reason))
	return delivery, nil
}

// moveStock draws the confirmed quantity from the origin, credits the
// destination with a new batch and writes the transfer ledger entry.
func (s *DeliveryService) moveStock(ctx context.Context, repos ScopedRepositories, delivery *logistics.PendingDelivery) error {
	batches, err := repos.Batches().FindForAllocation(ctx, delivery.ItemID, delivery.FromLocationID)
	if err != nil {
		return err
	}
	plan, err := domaininv.PlanAllocation(batches, delivery.ConfirmedQty, nil)
	if err != nil {
		return err
	}
	versions := make(map[uuid.UUID]int, len(batches))
	for _, batch := range batches {
		versions[batch.ID] = batch.GetVersion()
	}
	if err := domaininv.ApplyAllocation(plan, batches); err != nil {
		return err
	}
	for _, batch := range batches {
		if batch.GetVersion() == versions[batch.ID] {
			continue
		}
		if err := repos.Batches().SaveWithLock(ctx, batch, versions[batch.ID]); err != nil {
			return err
		}
	}

	destBatch, err := domaininv.NewStockBatch(delivery.ItemID, delivery.ToLocationID, delivery.ConfirmedQty, averageUnitCost(batches, plan), time.Now())
	if err != nil {
		return err
	}
	if err := repos.Batches().Save(ctx, destBatch); err != nil {
		return err
	}

	tx, err := domaininv.NewStockTransaction(domaininv.TransactionTypeTransfer, delivery.ItemID, delivery.FromLocationID, delivery.DriverID, delivery.ConfirmedQty)
	if err != nil {
		return err
	}
	refs := make([]domaininv.BatchRef, 0, len(plan.Allocations))
	for _, alloc := range plan.Allocations {
		refs = append(refs, domaininv.BatchRef(alloc))
	}
	tx.WithDestination(delivery.ToLocationID).
		WithBatchRefs(refs).
		WithCreatedBatch(destBatch.ID).
		WithTripStop(delivery.TripStopID).
		WithNote("delivery " + delivery.ID.String())
	return repos.Transactions().Save(ctx, tx)
}

func (s *DeliveryService) drainEvents(ctx context.Context, delivery *logistics.PendingDelivery) {
	events := delivery.GetDomainEvents()
	delivery.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("event publish failed", zap.Error(err))
	}
}

func averageUnitCost(batches []*domaininv.StockBatch, plan *domaininv.AllocationPlan) decimal.Decimal {
	byID := make(map[uuid.UUID]*domaininv.StockBatch, len(batches))
	for _, batch := range batches {
		byID[batch.ID] = batch
	}
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, alloc := range plan.Allocations {
		batch, ok := byID[alloc.BatchID]
		if !ok {
			continue
		}
		totalQty = totalQty.Add(alloc.Qty)
		totalCost = totalCost.Add(alloc.Qty.Mul(batch.UnitCost))
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(totalQty).Round(4)
}
