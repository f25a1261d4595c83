package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

type StockRequestRepository struct {
	db *gorm.DB
}

func NewStockRequestRepository(db *gorm.DB) *StockRequestRepository {
	return &StockRequestRepository{db: db}
}

func (r *StockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.StockRequest, error) {
	var request logistics.StockRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("stock request")
		}
		return nil, err
	}
	return &request, nil
}

func (r *StockRequestRepository) FindByStatus(ctx context.Context, status logistics.RequestStatus, p shared.Pagination) ([]*logistics.StockRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&logistics.StockRequest{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []*logistics.StockRequest
	err := query.
		Order("created_at ASC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&requests).Error
	return requests, total, err
}

func (r *StockRequestRepository) FindOpenByLocation(ctx context.Context, locationID uuid.UUID) ([]*logistics.StockRequest, error) {
	var requests []*logistics.StockRequest
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND status = ?", locationID, logistics.RequestStatusOpen).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *StockRequestRepository) Save(ctx context.Context, request *logistics.StockRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *StockRequestRepository) SaveWithLock(ctx context.Context, request *logistics.StockRequest, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&logistics.StockRequest{}).
		Where("id = ? AND version = ?", request.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":      request.Status,
			"note":        request.Note,
			"resolved_at": request.ResolvedAt,
			"version":     request.Version,
			"updated_at":  request.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("stock request")
	}
	return nil
}
