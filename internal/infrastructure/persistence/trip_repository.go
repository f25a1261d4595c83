package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Trip, error) {
	var trip logistics.Trip
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("trip")
		}
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepository) FindByDriver(ctx context.Context, driverID uuid.UUID, statuses []logistics.TripStatus) ([]*logistics.Trip, error) {
	var trips []*logistics.Trip
	query := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Where("driver_id = ?", driverID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Order("planned_for ASC").Find(&trips).Error
	return trips, err
}

func (r *TripRepository) CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&logistics.Trip{}).
		Where("vehicle_id = ? AND status IN ?", vehicleID,
			[]logistics.TripStatus{logistics.TripStatusPlanned, logistics.TripStatusInProgress}).
		Count(&count).Error
	return count, err
}

func (r *TripRepository) List(ctx context.Context, status *logistics.TripStatus, p shared.Pagination) ([]*logistics.Trip, int64, error) {
	query := r.db.WithContext(ctx).Model(&logistics.Trip{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []*logistics.Trip
	err := query.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Order("planned_for DESC").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&trips).Error
	return trips, total, err
}

func (r *TripRepository) Save(ctx context.Context, trip *logistics.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

// SaveWithLock guards the trip header with its version and rewrites
// the stops alongside it.
func (r *TripRepository) SaveWithLock(ctx context.Context, trip *logistics.Trip, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&logistics.Trip{}).
		Where("id = ? AND version = ?", trip.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       trip.Status,
			"started_at":   trip.StartedAt,
			"completed_at": trip.CompletedAt,
			"cancelled_at": trip.CancelledAt,
			"version":      trip.Version,
			"updated_at":   trip.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConcurrencyConflictError("trip")
	}

	for i := range trip.Stops {
		if err := r.db.WithContext(ctx).Save(&trip.Stops[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
