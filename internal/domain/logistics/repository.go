package logistics

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockyard/backend/internal/domain/shared"
)

type TripRepository interface {
	// FindByID loads the trip with its stops.
	FindByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID, statuses []TripStatus) ([]*Trip, error)
	// CountActiveByVehicle counts planned or in-progress trips for a vehicle.
	CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error)
	List(ctx context.Context, status *TripStatus, p shared.Pagination) ([]*Trip, int64, error)
	Save(ctx context.Context, trip *Trip) error
	SaveWithLock(ctx context.Context, trip *Trip, expectedVersion int) error
}

type PendingDeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PendingDelivery, error)
	FindByTripStop(ctx context.Context, tripStopID uuid.UUID) (*PendingDelivery, error)
	FindPendingByLocation(ctx context.Context, locationID uuid.UUID) ([]*PendingDelivery, error)
	Save(ctx context.Context, delivery *PendingDelivery) error
	// Resolve persists a resolution only if the stored row is still
	// pending, so two confirmations cannot both win.
	Resolve(ctx context.Context, delivery *PendingDelivery) error
}

type StockRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockRequest, error)
	FindByStatus(ctx context.Context, status RequestStatus, p shared.Pagination) ([]*StockRequest, int64, error)
	FindOpenByLocation(ctx context.Context, locationID uuid.UUID) ([]*StockRequest, error)
	Save(ctx context.Context, request *StockRequest) error
	SaveWithLock(ctx context.Context, request *StockRequest, expectedVersion int) error
}
