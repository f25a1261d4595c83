package inventory

import (
	"context"

	"github.com/stockyard/backend/internal/domain/inventory"
)

// TransactionScope runs a unit of work against repositories bound to a
// single database transaction. The callback either commits as a whole
// or rolls back as a whole.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos ScopedRepositories) error) error
}

// ScopedRepositories exposes the inventory repositories inside a scope.
type ScopedRepositories interface {
	Batches() inventory.StockBatchRepository
	Transactions() inventory.StockTransactionRepository
}
