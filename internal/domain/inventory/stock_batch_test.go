package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockyard/backend/internal/domain/shared"
)

func TestNewStockBatch(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()

	t.Run("creates batch with full remaining quantity", func(t *testing.T) {
		batch, err := NewStockBatch(itemID, locationID, decimal.NewFromInt(500), decimal.NewFromFloat(2.5), time.Now())
		require.NoError(t, err)
		assert.True(t, batch.InitialQty.Equal(decimal.NewFromInt(500)))
		assert.True(t, batch.RemainingQty.Equal(batch.InitialQty))
		assert.Equal(t, 1, batch.GetVersion())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewStockBatch(itemID, locationID, decimal.Zero, decimal.Zero, time.Now())
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeValidation))
	})

	t.Run("rejects missing item", func(t *testing.T) {
		_, err := NewStockBatch(uuid.Nil, locationID, decimal.NewFromInt(10), decimal.Zero, time.Now())
		require.Error(t, err)
	})
}

func TestStockBatchDraw(t *testing.T) {
	newBatch := func(qty int64) *StockBatch {
		batch, err := NewStockBatch(uuid.New(), uuid.New(), decimal.NewFromInt(qty), decimal.Zero, time.Now())
		require.NoError(t, err)
		return batch
	}

	t.Run("reduces remaining quantity", func(t *testing.T) {
		batch := newBatch(100)
		require.NoError(t, batch.Draw(decimal.NewFromInt(30)))
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(70)))
		assert.Equal(t, 2, batch.GetVersion())
	})

	t.Run("can drain to zero", func(t *testing.T) {
		batch := newBatch(100)
		require.NoError(t, batch.Draw(decimal.NewFromInt(100)))
		assert.True(t, batch.IsDrained())
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		batch := newBatch(100)
		err := batch.Draw(decimal.NewFromInt(101))
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInsufficientStock))
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(100)))
	})
}

func TestStockBatchRestore(t *testing.T) {
	batch, err := NewStockBatch(uuid.New(), uuid.New(), decimal.NewFromInt(100), decimal.Zero, time.Now())
	require.NoError(t, err)
	require.NoError(t, batch.Draw(decimal.NewFromInt(40)))

	t.Run("puts drawn quantity back", func(t *testing.T) {
		require.NoError(t, batch.Restore(decimal.NewFromInt(40)))
		assert.True(t, batch.RemainingQty.Equal(decimal.NewFromInt(100)))
	})

	t.Run("caps at initial quantity", func(t *testing.T) {
		err := batch.Restore(decimal.NewFromInt(1))
		require.Error(t, err)
		assert.True(t, shared.IsErrorCode(err, shared.ErrCodeInvalidState))
	})
}

func TestStockBatchExpiry(t *testing.T) {
	batch, err := NewStockBatch(uuid.New(), uuid.New(), decimal.NewFromInt(10), decimal.Zero, time.Now())
	require.NoError(t, err)
	assert.False(t, batch.IsExpired(time.Now()))

	batch.WithExpiry(time.Now().Add(-time.Hour))
	assert.True(t, batch.IsExpired(time.Now()))
}
