package cache

import (
	"context"

	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

// InvalidationHandler drops cached summaries for every location a
// stock movement touched.
type InvalidationHandler struct {
	cache *SummaryCache
}

func NewInvalidationHandler(cache *SummaryCache) *InvalidationHandler {
	return &InvalidationHandler{cache: cache}
}

func (h *InvalidationHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockReceived,
		inventory.EventTypeStockIssued,
		inventory.EventTypeStockTransferred,
		inventory.EventTypeTransactionReversed,
		logistics.EventTypeDeliveryConfirmed,
	}
}

func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockReceivedEvent:
		h.cache.Invalidate(ctx, e.LocationID)
	case *inventory.StockIssuedEvent:
		h.cache.Invalidate(ctx, e.LocationID)
	case *inventory.StockTransferredEvent:
		h.cache.Invalidate(ctx, e.FromLocationID, e.ToLocationID)
	case *inventory.TransactionReversedEvent:
		h.cache.Invalidate(ctx, e.LocationID)
	case *logistics.DeliveryConfirmedEvent:
		h.cache.Invalidate(ctx, e.ToLocationID)
	}
	return nil
}
