package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/stockyard/backend/internal/application/inventory"
	applogistics "github.com/stockyard/backend/internal/application/logistics"
	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/logistics"
)

// scopedRepositories binds every repository to one *gorm.DB transaction.
// It satisfies both the inventory and the logistics scope contracts so a
// single database transaction can span a delivery resolution and the
// stock movement it triggers.
type scopedRepositories struct {
	tx *gorm.DB
}

func (s *scopedRepositories) Batches() inventory.StockBatchRepository {
	return NewStockBatchRepository(s.tx)
}

func (s *scopedRepositories) Transactions() inventory.StockTransactionRepository {
	return NewStockTransactionRepository(s.tx)
}

func (s *scopedRepositories) Trips() logistics.TripRepository {
	return NewTripRepository(s.tx)
}

func (s *scopedRepositories) Deliveries() logistics.PendingDeliveryRepository {
	return NewPendingDeliveryRepository(s.tx)
}

func (s *scopedRepositories) Requests() logistics.StockRequestRepository {
	return NewStockRequestRepository(s.tx)
}

// InventoryTransactionScope implements the inventory unit of work on top
// of gorm's transaction support.
type InventoryTransactionScope struct {
	db *gorm.DB
}

func NewInventoryTransactionScope(db *gorm.DB) *InventoryTransactionScope {
	return &InventoryTransactionScope{db: db}
}

func (s *InventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.ScopedRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&scopedRepositories{tx: tx})
	})
}

// LogisticsTransactionScope implements the logistics unit of work, which
// additionally spans the inventory repositories.
type LogisticsTransactionScope struct {
	db *gorm.DB
}

func NewLogisticsTransactionScope(db *gorm.DB) *LogisticsTransactionScope {
	return &LogisticsTransactionScope{db: db}
}

func (s *LogisticsTransactionScope) Execute(ctx context.Context, fn func(repos applogistics.ScopedRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&scopedRepositories{tx: tx})
	})
}
