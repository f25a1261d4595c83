package logistics

import (
	"context"

	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/logistics"
)

// TransactionScope runs a unit of work spanning the logistics and
// inventory repositories in one database transaction. Delivery
// confirmation needs both: it resolves the delivery and moves stock
// atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos ScopedRepositories) error) error
}

type ScopedRepositories interface {
	Trips() logistics.TripRepository
	Deliveries() logistics.PendingDeliveryRepository
	Requests() logistics.StockRequestRepository
	Batches() inventory.StockBatchRepository
	Transactions() inventory.StockTransactionRepository
}
