package logistics

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

// TripService drives the trip lifecycle. Completing a dropoff leaves a
// pending delivery behind; no stock moves until the shop confirms it.
type TripService struct {
	scope    TransactionScope
	eventBus shared.EventBus
	logger   *zap.Logger
}

func NewTripService(scope TransactionScope, eventBus shared.EventBus, logger *zap.Logger) *TripService {
	return &TripService{scope: scope, eventBus: eventBus, logger: logger}
}

// PlanTrip creates a trip with its ordered stops in one go.
func (s *TripService) PlanTrip(ctx context.Context, cmd PlanTripCommand) (*logistics.Trip, error) {
	if len(cmd.Stops) == 0 {
		return nil, shared.NewValidationError("a trip needs at least one stop")
	}
	trip, err := logistics.NewTrip(cmd.Reference, cmd.DriverID, cmd.VehicleID, cmd.PlannedFor)
	if err != nil {
		return nil, err
	}
	for _, stopCmd := range cmd.Stops {
		stop, err := trip.AddStop(stopCmd.Type, stopCmd.LocationID, stopCmd.ItemID, stopCmd.PlannedQty)
		if err != nil {
			return nil, err
		}
		if stopCmd.StockRequestID != nil {
			if err := trip.BindStopRequest(stop.ID, *stopCmd.StockRequestID); err != nil {
				return nil, err
			}
		}
	}

	err = s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		active, err := repos.Trips().CountActiveByVehicle(ctx, trip.VehicleID)
		if err != nil {
			return err
		}
		if active > 0 {
			return shared.NewDomainError(shared.ErrCodeInvalidState,
				"vehicle already has an active trip")
		}
		return repos.Trips().Save(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trip planned",
		zap.String("trip_id", trip.ID.String()),
		zap.String("reference", trip.Reference),
		zap.Int("stops", len(trip.Stops)))
	return trip, nil
}

func (s *TripService) StartTrip(ctx context.Context, tripID, driverID uuid.UUID) (*logistics.Trip, error) {
	var trip *logistics.Trip
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trip, err = repos.Trips().FindByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.DriverID != driverID {
			return shared.NewDomainError(shared.ErrCodeNotOwner, "trip is assigned to another driver")
		}
		expected := trip.GetVersion()
		if err := trip.Start(); err != nil {
			return err
		}
		return repos.Trips().SaveWithLock(ctx, trip, expected)
	})
	if err != nil {
		return nil, err
	}

	s.drainEvents(ctx, trip)
	s.logger.Info("trip started", zap.String("trip_id", tripID.String()))
	return trip, nil
}

func (s *TripService) ArriveAtStop(ctx context.Context, tripID, stopID, driverID uuid.UUID) (*logistics.Trip, error) {
	var trip *logistics.Trip
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trip, err = repos.Trips().FindByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.DriverID != driverID {
			return shared.NewDomainError(shared.ErrCodeNotOwner, "trip is assigned to another driver")
		}
		expected := trip.GetVersion()
		if err := trip.ArriveAtStop(stopID); err != nil {
			return err
		}
		return repos.Trips().SaveWithLock(ctx, trip, expected)
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// CompleteStop records the serviced stop. Pickups only log the loaded
// quantity; dropoffs additionally open a pending delivery against the
// trip's pickup location, bound to the stop's stock request when one
// was planned.
func (s *TripService) CompleteStop(ctx context.Context, cmd CompleteStopCommand) (*CompleteStopResult, error) {
	var trip *logistics.Trip
	var delivery *logistics.PendingDelivery
	var tripCompleted bool
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trip, err = repos.Trips().FindByID(ctx, cmd.TripID)
		if err != nil {
			return err
		}
		if trip.DriverID != cmd.ActorID {
			return shared.NewDomainError(shared.ErrCodeNotOwner, "trip is assigned to another driver")
		}
		stop := findStop(trip, cmd.StopID)
		if stop == nil {
			return shared.NewNotFoundError("trip stop")
		}

		expected := trip.GetVersion()
		tripCompleted, err = trip.CompleteStop(cmd.StopID, cmd.ActualQty)
		if err != nil {
			return err
		}
		if err := repos.Trips().SaveWithLock(ctx, trip, expected); err != nil {
			return err
		}

		if stop.Type != logistics.StopTypeDropoff {
			return nil
		}

		origin := pickupLocationFor(trip, stop)
		if origin == uuid.Nil {
			return shared.NewValidationError("dropoff has no matching pickup on this trip")
		}
		delivery, err = logistics.NewPendingDelivery(stop.ID, stop.ItemID, origin, stop.LocationID, trip.DriverID, cmd.ActualQty)
		if err != nil {
			return err
		}
		if stop.StockRequestID != nil {
			delivery.BindStockRequest(*stop.StockRequestID)
			if err := s.startFulfilling(ctx, repos, *stop.StockRequestID); err != nil {
				return err
			}
		}
		return repos.Deliveries().Save(ctx, delivery)
	})
	if err != nil {
		return nil, err
	}

	s.drainEvents(ctx, trip)
	result := &CompleteStopResult{Trip: trip, TripCompleted: tripCompleted}
	if delivery != nil {
		id := delivery.ID
		result.PendingDeliveryID = &id
		s.logger.Info("pending delivery opened",
			zap.String("delivery_id", delivery.ID.String()),
			zap.String("trip_stop_id", delivery.TripStopID.String()),
			zap.String("claimed_qty", delivery.ClaimedQty.String()))
	}
	return result, nil
}

func (s *TripService) SkipStop(ctx context.Context, tripID, stopID, driverID uuid.UUID, reason string) (*logistics.Trip, error) {
	var trip *logistics.Trip
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trip, err = repos.Trips().FindByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.DriverID != driverID {
			return shared.NewDomainError(shared.ErrCodeNotOwner, "trip is assigned to another driver")
		}
		expected := trip.GetVersion()
		if err := trip.SkipStop(stopID, reason); err != nil {
			return err
		}
		return repos.Trips().SaveWithLock(ctx, trip, expected)
	})
	if err != nil {
		return nil, err
	}
	s.drainEvents(ctx, trip)
	return trip, nil
}

// CancelTrip abandons the remaining stops. Movements already recorded
// and deliveries already opened stay as they are.
func (s *TripService) CancelTrip(ctx context.Context, tripID uuid.UUID, reason string) (*logistics.Trip, error) {
	var trip *logistics.Trip
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trip, err = repos.Trips().FindByID(ctx, tripID)
		if err != nil {
			return err
		}
		expected := trip.GetVersion()
		if err := trip.Cancel(reason); err != nil {
			return err
		}
		return repos.Trips().SaveWithLock(ctx, trip, expected)
	})
	if err != nil {
		return nil, err
	}

	s.drainEvents(ctx, trip)
	s.logger.Info("trip cancelled",
		zap.String("trip_id", tripID.String()),
		zap.String("reason", reason))
	return trip, nil
}

func (s *TripService) GetTrip(ctx context.Context, tripID uuid.UUID) (*logistics.Trip, error) {
	var trip *logistics.Trip
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trip, err = repos.Trips().FindByID(ctx, tripID)
		return err
	})
	return trip, err
}

func (s *TripService) ListTrips(ctx context.Context, status *logistics.TripStatus, p shared.Pagination) ([]*logistics.Trip, int64, error) {
	var trips []*logistics.Trip
	var total int64
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trips, total, err = repos.Trips().List(ctx, status, p)
		return err
	})
	return trips, total, err
}

func (s *TripService) DriverTrips(ctx context.Context, driverID uuid.UUID) ([]*logistics.Trip, error) {
	var trips []*logistics.Trip
	err := s.scope.Execute(ctx, func(repos ScopedRepositories) error {
		var err error
		trips, err = repos.Trips().FindByDriver(ctx, driverID, []logistics.TripStatus{
			logistics.TripStatusPlanned, logistics.TripStatusInProgress,
		})
		return err
	})
	return trips, err
}

func (s *TripService) startFulfilling(ctx context.Context, repos ScopedRepositories, requestID uuid.UUID) error {
	request, err := repos.Requests().FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	expected := request.GetVersion()
	if err := request.StartFulfilling(); err != nil {
		return err
	}
	return repos.Requests().SaveWithLock(ctx, request, expected)
}

func (s *TripService) drainEvents(ctx context.Context, trip *logistics.Trip) {
	events := trip.GetDomainEvents()
	trip.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("event publish failed", zap.Error(err))
	}
}

func findStop(trip *logistics.Trip, stopID uuid.UUID) *logistics.TripStop {
	for i := range trip.Stops {
		if trip.Stops[i].ID == stopID {
			return &trip.Stops[i]
		}
	}
	return nil
}

// pickupLocationFor finds the completed pickup earlier in the trip that
// carried the dropoff's item.
func pickupLocationFor(trip *logistics.Trip, dropoff *logistics.TripStop) uuid.UUID {
	for i := range trip.Stops {
		stop := &trip.Stops[i]
		if stop.Type == logistics.StopTypePickup &&
			stop.ItemID == dropoff.ItemID &&
			stop.Sequence < dropoff.Sequence &&
			stop.Status == logistics.StopStatusCompleted {
			return stop.LocationID
		}
	}
	return uuid.Nil
}
