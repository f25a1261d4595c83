package logistics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/logistics"
	"github.com/stockyard/backend/internal/domain/shared"
)

// fakeStore keeps everything in maps and passes itself off as both the
// transaction scope and the scoped repositories.
type fakeStore struct {
	mu           sync.Mutex
	trips        map[uuid.UUID]*logistics.Trip
	deliveries   map[uuid.UUID]*logistics.PendingDelivery
	requests     map[uuid.UUID]*logistics.StockRequest
	batches      map[uuid.UUID]*inventory.StockBatch
	transactions map[uuid.UUID]*inventory.StockTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trips:        make(map[uuid.UUID]*logistics.Trip),
		deliveries:   make(map[uuid.UUID]*logistics.PendingDelivery),
		requests:     make(map[uuid.UUID]*logistics.StockRequest),
		batches:      make(map[uuid.UUID]*inventory.StockBatch),
		transactions: make(map[uuid.UUID]*inventory.StockTransaction),
	}
}

func (f *fakeStore) Execute(ctx context.Context, fn func(repos ScopedRepositories) error) error {
	return fn(f)
}

func (f *fakeStore) Trips() logistics.TripRepository                     { return (*fakeTripRepo)(f) }
func (f *fakeStore) Deliveries() logistics.PendingDeliveryRepository     { return (*fakeDeliveryRepo)(f) }
func (f *fakeStore) Requests() logistics.StockRequestRepository          { return (*fakeRequestRepo)(f) }
func (f *fakeStore) Batches() inventory.StockBatchRepository             { return (*fakeBatchRepo)(f) }
func (f *fakeStore) Transactions() inventory.StockTransactionRepository  { return (*fakeTxRepo)(f) }

type fakeTripRepo fakeStore

func (r *fakeTripRepo) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, shared.NewNotFoundError("trip")
	}
	copied := *trip
	copied.Stops = append([]logistics.TripStop(nil), trip.Stops...)
	copied.ClearDomainEvents()
	return &copied, nil
}

func (r *fakeTripRepo) FindByDriver(ctx context.Context, driverID uuid.UUID, statuses []logistics.TripStatus) ([]*logistics.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*logistics.Trip
	for _, trip := range r.trips {
		if trip.DriverID != driverID {
			continue
		}
		for _, status := range statuses {
			if trip.Status == status {
				copied := *trip
				result = append(result, &copied)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeTripRepo) CountActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, trip := range r.trips {
		if trip.VehicleID != vehicleID {
			continue
		}
		if trip.Status == logistics.TripStatusPlanned || trip.Status == logistics.TripStatusInProgress {
			count++
		}
	}
	return count, nil
}

func (r *fakeTripRepo) List(ctx context.Context, status *logistics.TripStatus, p shared.Pagination) ([]*logistics.Trip, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*logistics.Trip
	for _, trip := range r.trips {
		if status != nil && trip.Status != *status {
			continue
		}
		copied := *trip
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *fakeTripRepo) Save(ctx context.Context, trip *logistics.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *trip
	copied.Stops = append([]logistics.TripStop(nil), trip.Stops...)
	r.trips[trip.ID] = &copied
	return nil
}

func (r *fakeTripRepo) SaveWithLock(ctx context.Context, trip *logistics.Trip, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.trips[trip.ID]
	if !ok {
		return shared.NewNotFoundError("trip")
	}
	if stored.GetVersion() != expectedVersion {
		return shared.NewConcurrencyConflictError("trip")
	}
	copied := *trip
	copied.Stops = append([]logistics.TripStop(nil), trip.Stops...)
	r.trips[trip.ID] = &copied
	return nil
}

type fakeDeliveryRepo fakeStore

func (r *fakeDeliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*logistics.PendingDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, shared.NewNotFoundError("pending delivery")
	}
	copied := *delivery
	copied.ClearDomainEvents()
	return &copied, nil
}

func (r *fakeDeliveryRepo) FindByTripStop(ctx context.Context, tripStopID uuid.UUID) (*logistics.PendingDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, delivery := range r.deliveries {
		if delivery.TripStopID == tripStopID {
			copied := *delivery
			return &copied, nil
		}
	}
	return nil, shared.NewNotFoundError("pending delivery")
}

func (r *fakeDeliveryRepo) FindPendingByLocation(ctx context.Context, locationID uuid.UUID) ([]*logistics.PendingDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*logistics.PendingDelivery
	for _, delivery := range r.deliveries {
		if delivery.ToLocationID == locationID && delivery.Status == logistics.DeliveryStatusPending {
			copied := *delivery
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeDeliveryRepo) Save(ctx context.Context, delivery *logistics.PendingDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *delivery
	r.deliveries[delivery.ID] = &copied
	return nil
}

func (r *fakeDeliveryRepo) Resolve(ctx context.Context, delivery *logistics.PendingDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.deliveries[delivery.ID]
	if !ok {
		return shared.NewNotFoundError("pending delivery")
	}
	if stored.Status != logistics.DeliveryStatusPending {
		return shared.NewDomainError(shared.ErrCodeAlreadyResolved, "delivery is already resolved")
	}
	copied := *delivery
	r.deliveries[delivery.ID] = &copied
	return nil
}

type fakeRequestRepo fakeStore

func (r *fakeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*logistics.StockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, shared.NewNotFoundError("stock request")
	}
	copied := *request
	copied.ClearDomainEvents()
	return &copied, nil
}

func (r *fakeRequestRepo) FindByStatus(ctx context.Context, status logistics.RequestStatus, p shared.Pagination) ([]*logistics.StockRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*logistics.StockRequest
	for _, request := range r.requests {
		if request.Status == status {
			copied := *request
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeRequestRepo) FindOpenByLocation(ctx context.Context, locationID uuid.UUID) ([]*logistics.StockRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*logistics.StockRequest
	for _, request := range r.requests {
		if request.LocationID == locationID && request.Status == logistics.RequestStatusOpen {
			copied := *request
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRequestRepo) Save(ctx context.Context, request *logistics.StockRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) SaveWithLock(ctx context.Context, request *logistics.StockRequest, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[request.ID]
	if !ok {
		return shared.NewNotFoundError("stock request")
	}
	if stored.GetVersion() != expectedVersion {
		return shared.NewConcurrencyConflictError("stock request")
	}
	copied := *request
	r.requests[request.ID] = &copied
	return nil
}

type fakeBatchRepo fakeStore

func (r *fakeBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, shared.NewNotFoundError("stock batch")
	}
	copied := *batch
	return &copied, nil
}

func (r *fakeBatchRepo) FindForAllocation(ctx context.Context, itemID, locationID uuid.UUID) ([]*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.StockBatch
	for _, batch := range r.batches {
		if batch.ItemID == itemID && batch.LocationID == locationID && batch.RemainingQty.IsPositive() {
			copied := *batch
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReceivedAt.Before(result[j].ReceivedAt) })
	return result, nil
}

func (r *fakeBatchRepo) FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) ([]*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.StockBatch
	for _, batch := range r.batches {
		if batch.ItemID == itemID && batch.LocationID == locationID {
			copied := *batch
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeBatchRepo) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*inventory.StockBatch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Summarize(ctx context.Context, locationID uuid.UUID) ([]*inventory.StockSummary, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Save(ctx context.Context, batch *inventory.StockBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

func (r *fakeBatchRepo) SaveWithLock(ctx context.Context, batch *inventory.StockBatch, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.batches[batch.ID]
	if !ok {
		return shared.NewNotFoundError("stock batch")
	}
	if stored.GetVersion() != expectedVersion {
		return shared.NewConcurrencyConflictError("stock batch")
	}
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

type fakeTxRepo fakeStore

func (r *fakeTxRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, shared.NewNotFoundError("stock transaction")
	}
	copied := *tx
	return &copied, nil
}

func (r *fakeTxRepo) List(ctx context.Context, filter inventory.TransactionFilter) ([]*inventory.StockTransaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.StockTransaction
	for _, tx := range r.transactions {
		copied := *tx
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (r *fakeTxRepo) Save(ctx context.Context, tx *inventory.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *tx
	r.transactions[tx.ID] = &copied
	return nil
}

func (r *fakeTxRepo) MarkReversed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return shared.NewNotFoundError("stock transaction")
	}
	if tx.Reversed {
		return shared.NewConcurrencyConflictError("stock transaction")
	}
	tx.MarkReversed()
	return nil
}

// syncBus dispatches events to subscribed handlers inline, which is
// how the production bus behaves from the caller's point of view.
type syncBus struct {
	mu       sync.Mutex
	handlers []shared.EventHandler
	events   []shared.DomainEvent
}

func (b *syncBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	b.events = append(b.events, events...)
	handlers := append([]shared.EventHandler(nil), b.handlers...)
	b.mu.Unlock()

	for _, event := range events {
		for _, handler := range handlers {
			for _, eventType := range handler.EventTypes() {
				if eventType == event.EventType() {
					if err := handler.Handle(ctx, event); err != nil {
						return err
					}
					break
				}
			}
		}
	}
	return nil
}

func (b *syncBus) Subscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *syncBus) byType(eventType string) []shared.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var matched []shared.DomainEvent
	for _, event := range b.events {
		if event.EventType() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
