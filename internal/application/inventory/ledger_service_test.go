package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockyard/backend/internal/domain/catalog"
	"github.com/stockyard/backend/internal/domain/inventory"
	"github.com/stockyard/backend/internal/domain/shared"
)

type ledgerFixture struct {
	service   *LedgerService
	store     *fakeStore
	locations *fakeLocationRepo
	items     *fakeItemRepo
	bus       *recordingEventBus

	itemID     uuid.UUID
	locationID uuid.UUID
	actorID    uuid.UUID
}

func newLedgerFixture(t *testing.T, undoWindow time.Duration) *ledgerFixture {
	t.Helper()
	store := newFakeStore()
	locations := newFakeLocationRepo()
	items := newFakeItemRepo()
	bus := &recordingEventBus{}

	location, err := catalog.NewLocation("WH-1", "Main Warehouse", catalog.LocationTypeWarehouse)
	require.NoError(t, err)
	require.NoError(t, locations.Save(context.Background(), location))

	item, err := catalog.NewItem("FLOUR-50", "Flour", "kg", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, items.Save(context.Background(), item))

	return &ledgerFixture{
		service:    NewLedgerService(store, locations, items, bus, zap.NewNop(), undoWindow),
		store:      store,
		locations:  locations,
		items:      items,
		bus:        bus,
		itemID:     item.ID,
		locationID: location.ID,
		actorID:    uuid.New(),
	}
}

func (f *ledgerFixture) receive(t *testing.T, qty int64) *TransactionResult {
	t.Helper()
	result, err := f.service.Receive(context.Background(), ReceiveStockCommand{
		ItemID:     f.itemID,
		LocationID: f.locationID,
		Qty:        decimal.NewFromInt(qty),
		UnitCost:   decimal.NewFromInt(2),
		ActorID:    f.actorID,
	})
	require.NoError(t, err)
	return result
}

func (f *ledgerFixture) onHand(t *testing.T) decimal.Decimal {
	t.Helper()
	batches, err := f.store.Batches().FindByItemAndLocation(context.Background(), f.itemID, f.locationID)
	require.NoError(t, err)
	return inventory.TotalRemaining(batches)
}

func TestLedgerServiceReceive(t *testing.T) {
	f := newLedgerFixture(t, 5*time.Minute)

	result := f.receive(t, 500)
	require.NotNil(t, result.BatchID)
	assert.Equal(t, inventory.TransactionTypeReceive, result.Transaction.Type)
	require.NotNil(t, result.Transaction.ReversibleUntil)
	assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(500)))
	assert.Len(t, f.bus.byType(inventory.EventTypeStockReceived), 1)
}

func TestLedgerServiceReceiveUnknownItem(t *testing.T) {
	f := newLedgerFixture(t, 5*time.Minute)
	_, err := f.service.Receive(context.Background(), ReceiveStockCommand{
		ItemID:     uuid.New(),
		LocationID: f.locationID,
		Qty:        decimal.NewFromInt(10),
		UnitCost:   decimal.NewFromInt(2),
		ActorID:    f.actorID,
	})
	require.Error(t, err)
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeNotFound))
}

func TestLedgerServiceIssue(t *testing.T) {
	t.Run("fifo across batches", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		first := f.receive(t, 100)
		f.receive(t, 100)

		result, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(150),
			ActorID:    f.actorID,
		})
		require.NoError(t, err)
		assert.False(t, result.FIFOWarning)
		assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(50)))

		// the first batch drained completely
		oldest, err := f.store.Batches().FindByID(context.Background(), *first.BatchID)
		require.NoError(t, err)
		assert.True(t, oldest.IsDrained())
	})

	t.Run("insufficient stock leaves everything untouched", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		f.receive(t, 100)

		_, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(101),
			ActorID:    f.actorID,
		})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInsufficientStock))
		assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(100)))

		_, total, err := f.store.Transactions().List(context.Background(), inventory.TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total) // only the receive
	})

	t.Run("pinned batch sets advisory warning", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		f.receive(t, 100)
		newer := f.receive(t, 100)

		result, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:        f.itemID,
			LocationID:    f.locationID,
			Qty:           decimal.NewFromInt(40),
			PinnedBatchID: newer.BatchID,
			ActorID:       f.actorID,
		})
		require.NoError(t, err)
		assert.True(t, result.FIFOWarning)
		assert.True(t, result.Transaction.FIFOWarning)
	})

	t.Run("breaching a threshold publishes an alert", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		location, err := f.locations.FindByID(context.Background(), f.locationID)
		require.NoError(t, err)
		require.NoError(t, location.SetThresholds(decimal.NewFromInt(20), decimal.NewFromInt(60)))

		f.receive(t, 100)
		_, err = f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(50),
			ActorID:    f.actorID,
		})
		require.NoError(t, err)

		alerts := f.bus.byType(inventory.EventTypeStockBelowThreshold)
		require.Len(t, alerts, 1)
		alert := alerts[0].(*inventory.StockBelowThresholdEvent)
		assert.Equal(t, "low", alert.Level)
		assert.True(t, alert.OnHand.Equal(decimal.NewFromInt(50)))
	})
}

func TestLedgerServiceTransfer(t *testing.T) {
	f := newLedgerFixture(t, 5*time.Minute)
	shop, err := catalog.NewLocation("SHOP-1", "Corner Shop", catalog.LocationTypeShop)
	require.NoError(t, err)
	require.NoError(t, f.locations.Save(context.Background(), shop))

	f.receive(t, 200)

	result, err := f.service.Transfer(context.Background(), TransferStockCommand{
		ItemID:         f.itemID,
		FromLocationID: f.locationID,
		ToLocationID:   shop.ID,
		Qty:            decimal.NewFromInt(80),
		ActorID:        f.actorID,
	})
	require.NoError(t, err)
	require.NotNil(t, result.BatchID)
	require.NotNil(t, result.Transaction.LocationToID)
	assert.Equal(t, shop.ID, *result.Transaction.LocationToID)

	// origin down, destination holds a fresh batch
	assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(120)))
	destBatches, err := f.store.Batches().FindByItemAndLocation(context.Background(), f.itemID, shop.ID)
	require.NoError(t, err)
	require.Len(t, destBatches, 1)
	assert.True(t, destBatches[0].RemainingQty.Equal(decimal.NewFromInt(80)))
	assert.True(t, destBatches[0].UnitCost.Equal(decimal.NewFromInt(2)))

	t.Run("same origin and destination rejected", func(t *testing.T) {
		_, err := f.service.Transfer(context.Background(), TransferStockCommand{
			ItemID:         f.itemID,
			FromLocationID: f.locationID,
			ToLocationID:   f.locationID,
			Qty:            decimal.NewFromInt(1),
			ActorID:        f.actorID,
		})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeValidation))
	})
}

func TestLedgerServiceAdjust(t *testing.T) {
	t.Run("positive delta adds a correction batch", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		result, err := f.service.Adjust(context.Background(), AdjustStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Delta:      decimal.NewFromInt(30),
			Reason:     "count surplus",
			ActorID:    f.actorID,
		})
		require.NoError(t, err)
		require.NotNil(t, result.BatchID)
		assert.Nil(t, result.Transaction.ReversibleUntil)
		assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(30)))
	})

	t.Run("negative delta drains batches", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		f.receive(t, 100)
		_, err := f.service.Adjust(context.Background(), AdjustStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Delta:      decimal.NewFromInt(-25),
			Reason:     "count shortfall",
			ActorID:    f.actorID,
		})
		require.NoError(t, err)
		assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(75)))
	})

	t.Run("zero delta rejected", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		_, err := f.service.Adjust(context.Background(), AdjustStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Delta:      decimal.Zero,
			Reason:     "noop",
			ActorID:    f.actorID,
		})
		require.Error(t, err)
	})
}

func TestLedgerServiceUndo(t *testing.T) {
	t.Run("undo issue restores the batches", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		f.receive(t, 100)
		issued, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(40),
			ActorID:    f.actorID,
		})
		require.NoError(t, err)
		require.True(t, f.onHand(t).Equal(decimal.NewFromInt(60)))

		reversal, err := f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: issued.Transaction.ID,
			ActorID:       f.actorID,
		})
		require.NoError(t, err)
		assert.Equal(t, inventory.TransactionTypeAdjustment, reversal.Transaction.Type)
		assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(100)))

		original, err := f.store.Transactions().FindByID(context.Background(), issued.Transaction.ID)
		require.NoError(t, err)
		assert.True(t, original.Reversed)
	})

	t.Run("undo receive draws the batch back", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		received := f.receive(t, 100)

		_, err := f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: received.Transaction.ID,
			ActorID:       f.actorID,
		})
		require.NoError(t, err)
		assert.True(t, f.onHand(t).IsZero())
	})

	t.Run("undo receive fails once stock was consumed", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		received := f.receive(t, 100)
		_, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(70),
			ActorID:    f.actorID,
		})
		require.NoError(t, err)

		_, err = f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: received.Transaction.ID,
			ActorID:       f.actorID,
		})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInsufficientStock))
	})

	t.Run("undo transfer restores both sides", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		shop, err := catalog.NewLocation("SHOP-2", "Other Shop", catalog.LocationTypeShop)
		require.NoError(t, err)
		require.NoError(t, f.locations.Save(context.Background(), shop))
		f.receive(t, 200)

		transferred, err := f.service.Transfer(context.Background(), TransferStockCommand{
			ItemID:         f.itemID,
			FromLocationID: f.locationID,
			ToLocationID:   shop.ID,
			Qty:            decimal.NewFromInt(80),
			ActorID:        f.actorID,
		})
		require.NoError(t, err)

		_, err = f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: transferred.Transaction.ID,
			ActorID:       f.actorID,
		})
		require.NoError(t, err)
		assert.True(t, f.onHand(t).Equal(decimal.NewFromInt(200)))

		destBatches, err := f.store.Batches().FindByItemAndLocation(context.Background(), f.itemID, shop.ID)
		require.NoError(t, err)
		require.Len(t, destBatches, 1)
		assert.True(t, destBatches[0].IsDrained())
	})

	t.Run("expired window", func(t *testing.T) {
		f := newLedgerFixture(t, -time.Second)
		received := f.receive(t, 100)

		_, err := f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: received.Transaction.ID,
			ActorID:       f.actorID,
		})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUndoWindowExpired))
	})

	t.Run("only the owner can undo", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		received := f.receive(t, 100)

		_, err := f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: received.Transaction.ID,
			ActorID:       uuid.New(),
		})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeNotOwner))

		// a supervisor can force it
		_, err = f.service.Undo(context.Background(), UndoTransactionCommand{
			TransactionID: received.Transaction.ID,
			ActorID:       uuid.New(),
			Force:         true,
		})
		require.NoError(t, err)
	})

	t.Run("second undo loses", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		f.receive(t, 100)
		issued, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(10),
			ActorID:    f.actorID,
		})
		require.NoError(t, err)

		_, err = f.service.Undo(context.Background(), UndoTransactionCommand{TransactionID: issued.Transaction.ID, ActorID: f.actorID})
		require.NoError(t, err)
		_, err = f.service.Undo(context.Background(), UndoTransactionCommand{TransactionID: issued.Transaction.ID, ActorID: f.actorID})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeAlreadyReversed))
	})

	t.Run("a reversal cannot be undone", func(t *testing.T) {
		f := newLedgerFixture(t, 5*time.Minute)
		f.receive(t, 100)
		issued, err := f.service.Issue(context.Background(), IssueStockCommand{
			ItemID:     f.itemID,
			LocationID: f.locationID,
			Qty:        decimal.NewFromInt(10),
			ActorID:    f.actorID,
		})
		require.NoError(t, err)

		reversal, err := f.service.Undo(context.Background(), UndoTransactionCommand{TransactionID: issued.Transaction.ID, ActorID: f.actorID})
		require.NoError(t, err)

		_, err = f.service.Undo(context.Background(), UndoTransactionCommand{TransactionID: reversal.Transaction.ID, ActorID: f.actorID})
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUndoWindowExpired))
	})
}
