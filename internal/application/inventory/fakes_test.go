package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockyard/backend/internal/domain/catalog"
	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/shared"
)

// fakeStore is an in-memory stand-in for the persistence layer. It
// backs both the scoped repositories and the transaction scope; the
// scope here is a plain pass-through since the fakes have no real
// transactions to commit or roll back.
type fakeStore struct {
	mu           sync.Mutex
	batches      map[uuid.UUID]*inventory.StockBatch
	transactions map[uuid.UUID]*inventory.StockTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches:      make(map[uuid.UUID]*inventory.StockBatch),
		transactions: make(map[uuid.UUID]*inventory.StockTransaction),
	}
}

func (f *fakeStore) Execute(ctx context.Context, fn func(repos ScopedRepositories) error) error {
	return fn(f)
}

func (f *fakeStore) Batches() inventory.StockBatchRepository           { return (*fakeBatchRepo)(f) }
func (f *fakeStore) Transactions() inventory.StockTransactionRepository { return (*fakeTxRepo)(f) }

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
	sort.Slice(result, func(i, j int) bool { return result[i].ReceivedAt.Before(result[j].ReceivedAt) })
	return result, nil
}

func (r *fakeBatchRepo) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*inventory.StockBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*inventory.StockBatch
	for _, batch := range r.batches {
		if batch.ExpiresAt != nil && batch.ExpiresAt.Before(cutoff) && batch.RemainingQty.IsPositive() {
			copied := *batch
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeBatchRepo) Summarize(ctx context.Context, locationID uuid.UUID) ([]*inventory.StockSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byItem := make(map[uuid.UUID]*inventory.StockSummary)
	for _, batch := range r.batches {
		if batch.LocationID != locationID {
			continue
		}
		summary, ok := byItem[batch.ItemID]
		if !ok {
			summary = &inventory.StockSummary{ItemID: batch.ItemID, LocationID: locationID}
			byItem[batch.ItemID] = summary
		}
		summary.OnHand = summary.OnHand.Add(batch.RemainingQty)
		summary.BatchCount++
	}
	var result []*inventory.StockSummary
	for _, summary := range byItem {
		result = append(result, summary)
	}
	return result, nil
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
		if filter.ItemID != nil && tx.ItemID != *filter.ItemID {
			continue
		}
		if filter.LocationID != nil && tx.LocationID != *filter.LocationID {
			continue
		}
		if filter.OwnerID != nil && tx.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		copied := *tx
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
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

type fakeLocationRepo struct {
	mu        sync.Mutex
	locations map[uuid.UUID]*catalog.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[uuid.UUID]*catalog.Location)}
}

func (r *fakeLocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok {
		return nil, shared.NewNotFoundError("location")
	}
	return location, nil
}

func (r *fakeLocationRepo) FindByCode(ctx context.Context, code string) (*catalog.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, location := range r.locations {
		if location.Code == code {
			return location, nil
		}
	}
	return nil, shared.NewNotFoundError("location")
}

func (r *fakeLocationRepo) FindActive(ctx context.Context) ([]*catalog.Location, error) {
	return nil, nil
}

func (r *fakeLocationRepo) FindByType(ctx context.Context, locType catalog.LocationType) ([]*catalog.Location, error) {
	return nil, nil
}

func (r *fakeLocationRepo) Save(ctx context.Context, location *catalog.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[location.ID] = location
	return nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*catalog.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*catalog.Item)}
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.NewNotFoundError("item")
	}
	return item, nil
}

func (r *fakeItemRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.NewNotFoundError("item")
}

func (r *fakeItemRepo) FindActive(ctx context.Context) ([]*catalog.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) Save(ctx context.Context, item *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

// recordingEventBus captures published events for assertions.
type recordingEventBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *recordingEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *recordingEventBus) Subscribe(handler shared.EventHandler) {}

func (b *recordingEventBus) byType(eventType string) []shared.DomainEvent {
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
