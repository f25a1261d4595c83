package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/shared"
)

type StockTransactionRepository struct {
	db *gorm.DB
}

func NewStockTransactionRepository(db *gorm.DB) *StockTransactionRepository {
	return &StockTransactionRepository{db: db}
}

func (r *StockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	var tx inventory.StockTransaction
	err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("stock transaction")
		}
		return nil, err
	}
	return &tx, nil
}

func (r *StockTransactionRepository) List(ctx context.Context, filter inventory.TransactionFilter) ([]*inventory.StockTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockTransaction{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ? OR location_to_id = ?", *filter.LocationID, *filter.LocationID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []*inventory.StockTransaction
	err := query.
		Order("created_at DESC").
		Offset(filter.Pagination.Offset()).
		Limit(filter.Pagination.Limit()).
		Find(&txs).Error
	return txs, total, err
}

// Save only ever inserts. Ledger rows are immutable; the single
// permitted mutation goes through MarkReversed.
func (r *StockTransactionRepository) Save(ctx context.Context, tx *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// MarkReversed flips the reversed flag with a conditional update, so
// of two racing undos exactly one sees a row change.
func (r *StockTransactionRepository) MarkReversed(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Where("id = ? AND reversed = ?", id, false).
		Updates(map[string]interface{}{
			"reversed":   true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrCodeAlreadyReversed, "transaction was already reversed")
	}
	return nil
}
