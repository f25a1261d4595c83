package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/shared"
)

type StockBatchRepository struct {
	db *gorm.DB
}

func NewStockBatchRepository(db *gorm.DB) *StockBatchRepository {
	return &StockBatchRepository{db: db}
}

func (r *StockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("stock batch")
		}
		return nil, err
	}
	return &batch, nil
}

// FindForAllocation locks the candidate batches for the duration of
// the surrounding transaction, oldest received first.
func (r *StockBatchRepository) FindForAllocation(ctx context.Context, itemID, locationID uuid.UUID) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND location_id = ? AND remaining_qty > 0", itemID, locationID).
		Order("received_at ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *StockBatchRepository) FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		Order("received_at ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *StockBatchRepository) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*inventory.StockBatch, error) {
	var batches []*inventory.StockBatch
	err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ? AND remaining_qty > 0", cutoff).
		Order("expires_at ASC").
		Find(&batches).Error
	return batches, err
}

func (r *StockBatchRepository) Summarize(ctx context.Context, locationID uuid.UUID) ([]*inventory.StockSummary, error) {
	var summaries []*inventory.StockSummary
	err := r.db.WithContext(ctx).
		Model(&inventory.StockBatch{}).
		Select("item_id, location_id, SUM(remaining_qty) AS on_hand, COUNT(*) AS batch_count, MIN(received_at) AS oldest_at").
		Where("location_id = ? AND remaining_qty > 0", locationID).
		Group("item_id, location_id").
		Order("item_id").
		Scan(&summaries).Error
	return summaries, err
}

func (r *StockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock is the optimistic-locking write: the update only lands
// if the stored version still matches what the caller loaded.
func (r *StockBatchRepository) SaveWithLock(ctx context.Context, batch *inventory.StockBatch, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockBatch{}).
		Where("id = ? AND version = ?", batch.ID, expectedVersion).
		Updates(map[string]interface{}{
			"remaining_qty": batch.RemainingQty,
			"version":       batch.Version,
			"updated_at":    batch.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("stock batch")
	}
	return nil
}
