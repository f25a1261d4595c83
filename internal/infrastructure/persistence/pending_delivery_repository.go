package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

type PendingDeliveryRepository struct {
	db *gorm.DB
}

func NewPendingDeliveryRepository(db *gorm.DB) *PendingDeliveryRepository {
	return &PendingDeliveryRepository{db: db}
}

func (r *PendingDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.PendingDelivery, error) {
	var delivery logistics.PendingDelivery
	err := r.db.WithContext(ctx).First(&delivery, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("pending delivery")
		}
		return nil, err
	}
	return &delivery, nil
}

func (r *PendingDeliveryRepository) FindByTripStop(ctx context.Context, tripStopID uuid.UUID) (*logistics.PendingDelivery, error) {
	var delivery logistics.PendingDelivery
	err := r.db.WithContext(ctx).First(&delivery, "trip_stop_id = ?", tripStopID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("pending delivery")
		}
		return nil, err
	}
	return &delivery, nil
}

func (r *PendingDeliveryRepository) FindPendingByLocation(ctx context.Context, locationID uuid.UUID) ([]*logistics.PendingDelivery, error) {
	var deliveries []*logistics.PendingDelivery
	err := r.db.WithContext(ctx).
		Where("to_location_id = ? AND status = ?", locationID, logistics.DeliveryStatusPending).
		Order("created_at ASC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *PendingDeliveryRepository) Save(ctx context.Context, delivery *logistics.PendingDelivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

// Resolve writes a resolution only over a still-pending row. When two
// confirmations race, the loser hits zero affected rows.
func (r *PendingDeliveryRepository) Resolve(ctx context.Context, delivery *logistics.PendingDelivery) error {
	result := r.db.WithContext(ctx).
		Model(&logistics.PendingDelivery{}).
		Where("id = ? AND status = ?", delivery.ID, logistics.DeliveryStatusPending).
		Updates(map[string]interface{}{
			"status":        delivery.Status,
			"confirmed_qty": delivery.ConfirmedQty,
			"note":          delivery.Note,
			"resolved_by":   delivery.ResolvedBy,
			"resolved_at":   delivery.ResolvedAt,
			"version":       delivery.Version,
			"updated_at":    delivery.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrCodeAlreadyResolved, "delivery is already resolved")
	}
	return nil
}
