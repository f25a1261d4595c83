package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockyard/backend/internal/domain/catalog"
	"github.com/stockyard/backend/internal/domain/inventory"
)

// StockSummaryView is a per-item rollup at one location, with the
// quantity also expressed in whole bags and classified against the
// location's thresholds.
type StockSummaryView struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	SKU      string          `json:"sku"`
	OnHand   decimal.Decimal `json:"on_hand"`
	Bags     int64           `json:"bags"`
	Level    string          `json:"level"`
	Batches  int             `json:"batches"`
	OldestAt *time.Time      `json:"oldest_at,omitempty"`
}

// QueryService serves read-only inventory views straight from the
// repositories, outside any transaction scope.
type QueryService struct {
	batches      inventory.StockBatchRepository
	transactions inventory.StockTransactionRepository
	items        catalog.ItemRepository
	locations    catalog.LocationRepository
	logger       *zap.Logger
}

func NewQueryService(
	batches inventory.StockBatchRepository,
	transactions inventory.StockTransactionRepository,
	items catalog.ItemRepository,
	locations catalog.LocationRepository,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		batches:      batches,
		transactions: transactions,
		items:        items,
		locations:    locations,
		logger:       logger,
	}
}

// LocationSummary rolls up on-hand stock for every item at a location.
func (s *QueryService) LocationSummary(ctx context.Context, locationID uuid.UUID) ([]*StockSummaryView, error) {
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.batches.Summarize(ctx, locationID)
	if err != nil {
		return nil, err
	}

	views := make([]*StockSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		view := &StockSummaryView{
			ItemID:   summary.ItemID,
			OnHand:   summary.OnHand,
			Level:    location.StockLevel(summary.OnHand),
			Batches:  summary.BatchCount,
			OldestAt: summary.OldestAt,
		}
		if item, err := s.items.FindByID(ctx, summary.ItemID); err == nil {
			view.ItemName = item.Name
			view.SKU = item.SKU
			view.Bags = item.BagsFromBase(summary.OnHand)
		} else {
			s.logger.Warn("summary item lookup failed",
				zap.String("item_id", summary.ItemID.String()), zap.Error(err))
		}
		views = append(views, view)
	}
	return views, nil
}

// Transactions pages through the movement ledger.
func (s *QueryService) Transactions(ctx context.Context, filter inventory.TransactionFilter) ([]*inventory.StockTransaction, int64, error) {
	return s.transactions.List(ctx, filter)
}

// Batches lists the batches of one item at one location, drained
// batches included.
func (s *QueryService) Batches(ctx context.Context, itemID, locationID uuid.UUID) ([]*inventory.StockBatch, error) {
	return s.batches.FindByItemAndLocation(ctx, itemID, locationID)
}

// ExpiringBatches lists batches that expire within the given horizon
// and still hold stock.
func (s *QueryService) ExpiringBatches(ctx context.Context, within time.Duration) ([]*inventory.StockBatch, error) {
	return s.batches.FindExpiringBefore(ctx, time.Now().Add(within))
}
